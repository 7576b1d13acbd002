package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mchv/adminpilot/internal/store"
)

// OpenAIProvider is the chat-completions fallback. It has no web-search
// grounding, so DiscoverDeals returns no citation URLs and callers fall
// back to the generic search link.
type OpenAIProvider struct {
	apiKey string
	model  string
	client *openai.Client
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{apiKey: strings.TrimSpace(apiKey), model: model}
}

func (p *OpenAIProvider) ensureClient() error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	if p.client == nil {
		c := openai.NewClient(option.WithAPIKey(p.apiKey))
		p.client = &c
	}
	return nil
}

func (p *OpenAIProvider) SetAPIKey(key string) {
	p.apiKey = strings.TrimSpace(key)
	p.client = nil
}

func (p *OpenAIProvider) SetModel(model string) {
	if model = strings.TrimSpace(model); model != "" {
		p.model = model
	}
}

func (p *OpenAIProvider) Extract(ctx context.Context, req ExtractRequest) (string, error) {
	if err := p.ensureClient(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	vocab := "Finance, Santé, Logement, Abonnements, Impôts, Véhicule"
	if len(req.Categories) > 0 {
		vocab = strings.Join(req.Categories, ", ")
	}
	system := "Tu extrais les champs d'un document administratif. Réponds UNIQUEMENT en JSON valide avec les clés: " +
		"title (string), provider (string), category (string, choisir parmi: " + vocab + "), " +
		"dueDate (string YYYY-MM-DD), amount (number, optionnel), renewalDate (string YYYY-MM-DD, optionnel)."

	var user openai.ChatCompletionMessageParamUnion
	if len(req.ImageData) > 0 {
		dataURL := "data:" + req.MimeType + ";base64," + base64.StdEncoding.EncodeToString(req.ImageData)
		user = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart("Analyse ce document administratif (facture, contrat, avis d'imposition) et extrais les informations structurées demandées."),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		})
	} else {
		user = openai.UserMessage("Analyse ce texte de document administratif et extrais les informations clés : " + req.Text)
	}

	return p.complete(ctx, system, user)
}

func (p *OpenAIProvider) Advise(ctx context.Context, items []AdviseItem) (string, error) {
	if err := p.ensureClient(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, _ := json.Marshal(items)
	system := "Tu es un assistant de gestion \"Life Admin\". Donne un conseil court (2 phrases max) pour réduire la charge mentale de l'utilisateur."
	return p.complete(ctx, system, openai.UserMessage("Liste d'obligations administratives : "+string(payload)))
}

func (p *OpenAIProvider) DiscoverDeals(ctx context.Context, items []store.Item) (DealsResponse, error) {
	if err := p.ensureClient(); err != nil {
		return DealsResponse{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, _ := json.Marshal(items)
	system := "Tu compares les offres de marché françaises (Mobile, Internet, Energie, Streaming). " +
		"Réponds UNIQUEMENT sous forme d'un tableau JSON avec les champs: id, type (toujours 'deal'), title, description (avec prix estimé), actionLabel, savings (estimation euros/mois)."
	text, err := p.complete(ctx, system, openai.UserMessage("Basé sur ces abonnements, trouve les 3 meilleures offres actuelles : "+string(payload)))
	if err != nil {
		return DealsResponse{}, err
	}
	// no grounding support here: no source URLs
	return DealsResponse{Text: text}, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, system string, user openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			user,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
