package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mchv/adminpilot/internal/config"
	"github.com/mchv/adminpilot/internal/llm"
	"github.com/mchv/adminpilot/internal/prefs"
	"github.com/mchv/adminpilot/internal/secrets"
	"github.com/mchv/adminpilot/internal/service"
	"github.com/mchv/adminpilot/internal/store"
	"github.com/mchv/adminpilot/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st := store.New()
	state, err := prefs.LoadState(cfg.State.Path)
	if err != nil {
		log.Printf("warn: ignoring unreadable state file: %v", err)
	}
	if len(state.Items) > 0 || len(state.Categories) > 0 {
		st.Replace(state.Items, state.Categories)
	}

	apiKey := resolveAPIKey(cfg)
	provider := llm.NewProvider(cfg.LLM.Provider, apiKey, cfg.LLM.Model)

	analyzer := &service.Analyzer{Provider: provider, Categories: st.Categories}
	refresher := &service.Refresher{
		Advisor:  &service.Advisor{Provider: provider},
		Insights: &service.InsightService{Provider: provider},
	}

	p := tea.NewProgram(tui.New(ctx, cfg, st, tui.Services{
		Analyzer:  analyzer,
		Refresher: refresher,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func resolveAPIKey(cfg config.Config) string {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	env := strings.TrimSpace(cfg.LLM.APIKeyEnv)
	if env == "" {
		if provider == "openai" {
			env = "OPENAI_API_KEY"
		} else {
			env = "GEMINI_API_KEY"
		}
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	if k, err := secrets.FetchProviderKey(provider); err == nil {
		return k
	}
	return strings.TrimSpace(cfg.LLM.APIKey)
}
