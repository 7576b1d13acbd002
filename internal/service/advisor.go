package service

import (
	"context"
	"fmt"

	"github.com/mchv/adminpilot/internal/llm"
	"github.com/mchv/adminpilot/internal/store"
)

// Canned advisory strings. The empty-inventory one is returned without
// touching the provider at all.
const (
	advisorEmptyInventory = "Votre inventaire est vide. Commencez par ajouter un document pour réduire votre charge mentale."
	advisorAllQuiet       = "Tout semble sous contrôle. Respirez !"
)

// Advisor produces a short mental-load advisory over the item list.
type Advisor struct {
	Provider llm.Provider
}

// Advise sends a compact projection (title, provider, dueDate, status) of
// each item and returns the model's advice. Empty list: fixed fallback,
// zero provider calls. Empty model text: second fixed fallback.
func (a *Advisor) Advise(ctx context.Context, items []store.Item) (string, error) {
	if len(items) == 0 {
		return advisorEmptyInventory, nil
	}
	text, err := a.Provider.Advise(ctx, llm.ProjectItems(items))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
	}
	if text == "" {
		return advisorAllQuiet, nil
	}
	return text, nil
}
