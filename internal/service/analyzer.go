// Package service composes the store and the LLM provider into the three
// assist flows: document analysis, advisory text and deal discovery.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mchv/adminpilot/internal/llm"
	"github.com/mchv/adminpilot/internal/store"
)

// External-call failures, surfaced as a generic user notice. No auto retry.
var (
	ErrAnalysisFailed      = errors.New("document analysis failed")
	ErrAdvisoryUnavailable = errors.New("advisory unavailable")
)

// categorySnapDistance bounds how far a near-miss spelling may be from a
// known category before we leave it untouched.
const categorySnapDistance = 2

// Analyzer extracts a pre-filled item draft from free text or a captured
// document image. Transport failures propagate; malformed model output does
// not — it yields an empty draft.
type Analyzer struct {
	Provider   llm.Provider
	Categories func() []string // known vocabulary for the prompt and snapping
}

func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (store.ItemDraft, error) {
	return a.analyze(ctx, llm.ExtractRequest{Text: text, Categories: a.knownCategories()})
}

func (a *Analyzer) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (store.ItemDraft, error) {
	return a.analyze(ctx, llm.ExtractRequest{
		ImageData:  data,
		MimeType:   mimeType,
		Categories: a.knownCategories(),
	})
}

func (a *Analyzer) analyze(ctx context.Context, req llm.ExtractRequest) (store.ItemDraft, error) {
	raw, err := a.Provider.Extract(ctx, req)
	if err != nil {
		return store.ItemDraft{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	// Fail open: an unparsable response is "no usable data", not an error.
	// Callers must treat an all-empty draft as a possible outcome.
	var draft store.ItemDraft
	if obj := firstJSONObject(raw); obj != "" {
		if err := json.Unmarshal([]byte(obj), &draft); err != nil {
			return store.ItemDraft{}, nil
		}
	}
	draft.Category = a.snapCategory(draft.Category)
	return draft, nil
}

func (a *Analyzer) knownCategories() []string {
	if a.Categories == nil {
		return nil
	}
	return a.Categories()
}

// snapCategory maps near-miss spellings from the model ("Sante", "vehicule")
// onto the real vocabulary. An exact or close match wins; anything farther
// is returned as-is.
func (a *Analyzer) snapCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	best, bestDist := "", categorySnapDistance+1
	for _, known := range a.knownCategories() {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(known))
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	if best != "" {
		return best
	}
	return name
}

// firstJSONObject returns the outermost {...} substring, tolerating model
// chatter or code fences around the JSON body.
func firstJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
