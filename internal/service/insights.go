package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mchv/adminpilot/internal/llm"
	"github.com/mchv/adminpilot/internal/store"
)

// fallbackSearchURL is attached when the response carries no grounding
// citations at all.
const fallbackSearchURL = "https://www.google.com/search?q=meilleures+offres+abonnements+france"

// jsonArrayPattern locates the bracketed JSON array embedded in the model's
// free-text answer. The match is greedy across lines: first '[' to last ']'.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// InsightService discovers market-deal suggestions via a web-grounded
// provider call.
type InsightService struct {
	Provider llm.Provider
}

// Discover returns up to three deal insights for the given items. An empty
// item list returns nil with zero provider calls. Transport errors
// propagate; unparsable model output fails closed to an empty list.
func (s *InsightService) Discover(ctx context.Context, items []store.Item) ([]store.Insight, error) {
	if len(items) == 0 {
		return nil, nil
	}
	resp, err := s.Provider.DiscoverDeals(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("discover deals: %w", err)
	}
	return ParseInsights(resp), nil
}

// ParseInsights applies the extraction contract to a raw deals response:
// decode the first bracketed JSON array as insights, else return nothing;
// then attach the i-th citation URL to the i-th insight, falling back to
// the first citation, then to the generic search URL.
func ParseInsights(resp llm.DealsResponse) []store.Insight {
	match := jsonArrayPattern.FindString(resp.Text)
	if match == "" {
		return nil
	}
	var insights []store.Insight
	if err := json.Unmarshal([]byte(match), &insights); err != nil {
		return nil
	}
	for i := range insights {
		switch {
		case i < len(resp.SourceURLs):
			insights[i].URL = resp.SourceURLs[i]
		case len(resp.SourceURLs) > 0:
			insights[i].URL = resp.SourceURLs[0]
		default:
			insights[i].URL = fallbackSearchURL
		}
	}
	return insights
}
