package service

import (
	"context"
	"sync"

	"github.com/mchv/adminpilot/internal/llm"
	"github.com/mchv/adminpilot/internal/store"
)

// stubProvider records invocations so tests can assert that empty-input
// paths never reach the external capability.
type stubProvider struct {
	mu sync.Mutex

	extractCalls int
	adviseCalls  int
	dealsCalls   int

	extractText string
	extractErr  error
	adviseText  string
	adviseErr   error
	deals       llm.DealsResponse
	dealsErr    error

	lastAdvise []llm.AdviseItem
}

func (p *stubProvider) Extract(_ context.Context, _ llm.ExtractRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extractCalls++
	return p.extractText, p.extractErr
}

func (p *stubProvider) Advise(_ context.Context, items []llm.AdviseItem) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adviseCalls++
	p.lastAdvise = items
	return p.adviseText, p.adviseErr
}

func (p *stubProvider) DiscoverDeals(_ context.Context, _ []store.Item) (llm.DealsResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dealsCalls++
	return p.deals, p.dealsErr
}

func (p *stubProvider) calls() (extract, advise, deals int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.extractCalls, p.adviseCalls, p.dealsCalls
}
