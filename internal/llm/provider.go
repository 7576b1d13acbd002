package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/mchv/adminpilot/internal/store"
)

// Provider is the boundary to the generative-AI capability. Implementations
// are pure transport: they send the request and return the model's text.
// Parsing policy (fail-open drafts, bracketed-array extraction) belongs to
// the service layer.
type Provider interface {
	// Extract sends document content plus the fixed extraction schema and
	// returns the raw model text, expected to be a JSON object.
	Extract(ctx context.Context, req ExtractRequest) (string, error)
	// Advise sends the compact item projection and returns free-form advice.
	Advise(ctx context.Context, items []AdviseItem) (string, error)
	// DiscoverDeals sends the full item list with web-search grounding
	// enabled and returns the model text plus citation URLs, if any.
	DiscoverDeals(ctx context.Context, items []store.Item) (DealsResponse, error)
}

// NewProvider selects an implementation by configured name, defaulting to
// Gemini. The model setting is provider-specific: the Gemini default must
// not leak onto OpenAI, which has its own.
func NewProvider(name, apiKey, model string) Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		if model == defaultModel {
			model = ""
		}
		return NewOpenAIProvider(apiKey, model)
	default:
		return NewGeminiProvider(apiKey, model)
	}
}

// Provider-level sentinels, mapped from transport status codes.
var (
	ErrNoAPIKey     = errors.New("llm: api key not configured")
	ErrUnauthorized = errors.New("llm: unauthorized (api key invalid or expired)")
	ErrRateLimited  = errors.New("llm: rate limited")
)

// ExtractRequest carries either free text or binary document content.
type ExtractRequest struct {
	Text      string
	ImageData []byte // raw image or PDF bytes; base64-encoded on the wire
	MimeType  string
	// Categories is the known vocabulary, offered to the model in the
	// schema description. Not enforced client-side.
	Categories []string
}

// AdviseItem is the compact per-item projection sent to the advisor.
type AdviseItem struct {
	Title    string `json:"t"`
	Provider string `json:"p"`
	DueDate  string `json:"d"`
	Status   string `json:"s"`
}

// DealsResponse is the raw discovery output: model text with the grounding
// citation URLs returned alongside it.
type DealsResponse struct {
	Text       string
	SourceURLs []string
}

// ProjectItems builds the advisor projection from stored items.
func ProjectItems(items []store.Item) []AdviseItem {
	out := make([]AdviseItem, 0, len(items))
	for _, it := range items {
		out = append(out, AdviseItem{
			Title:    it.Title,
			Provider: it.Provider,
			DueDate:  it.DueDate,
			Status:   string(it.Status),
		})
	}
	return out
}
