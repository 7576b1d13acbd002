package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mchv/adminpilot/internal/store"
)

// Refresher serializes the "items changed" fan-out: one advisory call and
// one discovery call run concurrently, stamped with a generation number.
// A newer Refresh makes every older result non-latest; callers drop stale
// results instead of applying them (last-request-wins). In-flight requests
// are not aborted, merely ignored.
type Refresher struct {
	Advisor  *Advisor
	Insights *InsightService

	gen atomic.Uint64
}

// RefreshResult is one completed advisory+discovery pair. Partial results
// are kept when only one side failed; Err carries the first failure.
type RefreshResult struct {
	Gen      uint64
	Advisory string
	Insights []store.Insight
	Err      error
}

// Refresh runs the pair and blocks until both calls settle.
func (r *Refresher) Refresh(ctx context.Context, items []store.Item) RefreshResult {
	gen := r.gen.Add(1)

	var (
		wg       sync.WaitGroup
		advisory string
		advErr   error
		insights []store.Insight
		insErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		advisory, advErr = r.Advisor.Advise(ctx, items)
	}()
	go func() {
		defer wg.Done()
		insights, insErr = r.Insights.Discover(ctx, items)
	}()
	wg.Wait()

	res := RefreshResult{Gen: gen, Advisory: advisory, Insights: insights}
	if advErr != nil {
		res.Err = advErr
	} else if insErr != nil {
		res.Err = insErr
	}
	return res
}

// Latest reports whether gen is still the most recent refresh.
func (r *Refresher) Latest(gen uint64) bool {
	return r.gen.Load() == gen
}
