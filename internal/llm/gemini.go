package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mchv/adminpilot/internal/store"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta/models"
	requestTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	defaultModel   = "gemini-3-flash-preview"
)

// GeminiProvider talks to the Gemini generateContent REST API. It supports
// structured JSON extraction (responseSchema), inline image/PDF parts and
// the googleSearch grounding tool with citation URLs.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &GeminiProvider{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: geminiBaseURL,
		http:    &http.Client{},
	}
}

func (g *GeminiProvider) SetAPIKey(key string) { g.apiKey = strings.TrimSpace(key) }
func (g *GeminiProvider) SetModel(model string) {
	if model = strings.TrimSpace(model); model != "" {
		g.model = model
	}
}

// wire types for generateContent

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	Tools            []geminiTool     `json:"tools,omitempty"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type geminiGenConfig struct {
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]geminiSchema `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// extractionSchema is the fixed field set requested when parsing a
// document. The category description carries the known vocabulary; the
// model is steered toward it but the client never enforces it.
func extractionSchema(categories []string) *geminiSchema {
	vocab := "Finance, Santé, Logement, Abonnements, Impôts, Véhicule"
	if len(categories) > 0 {
		vocab = strings.Join(categories, ", ")
	}
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]geminiSchema{
			"title":       {Type: "STRING"},
			"provider":    {Type: "STRING"},
			"category":    {Type: "STRING", Description: "Choisir parmi: " + vocab},
			"dueDate":     {Type: "STRING", Description: "Format YYYY-MM-DD"},
			"amount":      {Type: "NUMBER"},
			"renewalDate": {Type: "STRING", Description: "Format YYYY-MM-DD si applicable"},
		},
		Required: []string{"title", "provider", "category", "dueDate"},
	}
}

// Extract requests structured JSON for a text or image document and returns
// the raw model text.
func (g *GeminiProvider) Extract(ctx context.Context, req ExtractRequest) (string, error) {
	var parts []geminiPart
	if len(req.ImageData) > 0 {
		parts = []geminiPart{
			{InlineData: &geminiBlob{
				MimeType: req.MimeType,
				Data:     base64.StdEncoding.EncodeToString(req.ImageData),
			}},
			{Text: "Analyse ce document administratif (facture, contrat, avis d'imposition) et extrais les informations structurées demandées."},
		}
	} else {
		parts = []geminiPart{
			{Text: "Analyse ce texte de document administratif et extrais les informations clés : " + req.Text},
		}
	}

	resp, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   extractionSchema(req.Categories),
		},
	})
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// Advise returns short free-text advice over the compact item projection.
func (g *GeminiProvider) Advise(ctx context.Context, items []AdviseItem) (string, error) {
	payload, _ := json.Marshal(items)
	prompt := "En tant qu'assistant de gestion \"Life Admin\", analyse cette liste d'obligations administratives et donne un conseil court (2 phrases max) pour réduire la charge mentale de l'utilisateur : " + string(payload)

	resp, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// DiscoverDeals asks for three market deals with web-search grounding and
// returns the model text plus the grounding-chunk citation URLs.
func (g *GeminiProvider) DiscoverDeals(ctx context.Context, items []store.Item) (DealsResponse, error) {
	payload, _ := json.Marshal(items)
	prompt := "Basé sur ces abonnements : " + string(payload) + ", trouve les 3 meilleures offres de marché actuelles en France pour faire des économies (Mobile, Internet, Energie, Streaming).\n" +
		"Compare les prix actuels des fournisseurs (Orange, SFR, Free, Bouygues, Netflix, EDF, etc.).\n" +
		"Réponds UNIQUEMENT sous forme d'un tableau JSON avec les champs: id, type (toujours 'deal'), title, description (avec prix estimé), actionLabel, savings (estimation euros/mois)."

	resp, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		Tools:    []geminiTool{{GoogleSearch: &struct{}{}}},
	})
	if err != nil {
		return DealsResponse{}, err
	}

	out := DealsResponse{Text: responseText(resp)}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				out.SourceURLs = append(out.SourceURLs, chunk.Web.URI)
			}
		}
	}
	return out, nil
}

// generate performs one generateContent call and decodes the response.
func (g *GeminiProvider) generate(ctx context.Context, payload geminiRequest) (geminiResponse, error) {
	var out geminiResponse
	if g.apiKey == "" {
		return out, ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("gemini: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("gemini: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return out, ErrUnauthorized
	case http.StatusTooManyRequests:
		return out, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return out, fmt.Errorf("gemini: reading response: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("gemini: parsing response: %w", err)
	}
	return out, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
