// Package resolver picks the first working source for a quote. Sources
// are ordered by quality; later entries are only consulted when every
// earlier one failed or does not cover the symbol.
package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/logger"
)

const (
	resolveWorkers   = 20
	perSymbolTimeout = 12 * time.Second
)

// SourceAdapter is one price source in the fallback chain.
type SourceAdapter interface {
	// Name tags quotes served by this source.
	Name() string
	// Covers reports whether the source can serve the symbol at all.
	// Must not touch the network.
	Covers(symbol string) bool
	// FetchQuote returns a quote or an error. Adapters surface
	// market.ErrUnavailable for anything transient.
	FetchQuote(ctx context.Context, symbol string) (market.Quote, error)
}

// Resolver walks adapter chains in priority order.
type Resolver struct {
	indexChain  []SourceAdapter
	equityChain []SourceAdapter
	logger      *logger.Logger
}

// New builds a resolver. Chains are fixed at construction; indices and
// equities have different source orders because NSE's equity endpoint
// does not serve index spot prices.
func New(log *logger.Logger, indexChain, equityChain []SourceAdapter) *Resolver {
	return &Resolver{
		indexChain:  indexChain,
		equityChain: equityChain,
		logger:      log.WithField("component", "resolver"),
	}
}

// Resolve returns the best available quote for the symbol. Sources are
// tried strictly in order and the first usable price wins; the rest of
// the chain is never touched. When every source fails the result is a
// degraded quote with a zero price and source "none", not an error:
// callers decide whether stale or mock data substitutes.
func (r *Resolver) Resolve(ctx context.Context, symbol string) market.Quote {
	chain := r.equityChain
	if market.IsIndex(symbol) {
		chain = r.indexChain
	}

	for _, adapter := range chain {
		if !adapter.Covers(symbol) {
			continue
		}

		q, err := adapter.FetchQuote(ctx, symbol)
		if err != nil {
			r.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"source": adapter.Name(),
			}).Debug("source failed, trying next")
			continue
		}
		if !q.Usable() {
			continue
		}
		return q
	}

	r.logger.WithField("symbol", symbol).Warn("all sources exhausted")
	return market.Quote{Symbol: symbol, Source: market.SourceNone}
}

// ResolveMany resolves a batch of symbols through a fixed worker pool.
// Fan-out is across symbols only; within a symbol the chain stays
// sequential. Symbols that exceed the per-symbol timeout are dropped
// from the result rather than returned degraded.
func (r *Resolver) ResolveMany(ctx context.Context, symbols []string) map[string]market.Quote {
	jobs := make(chan string)
	var mu sync.Mutex
	results := make(map[string]market.Quote, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < resolveWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				symCtx, cancel := context.WithTimeout(ctx, perSymbolTimeout)
				q := r.Resolve(symCtx, symbol)
				timedOut := symCtx.Err() != nil
				cancel()

				if timedOut && !q.Usable() {
					r.logger.WithField("symbol", symbol).Debug("symbol resolve timed out, dropped")
					continue
				}

				mu.Lock()
				results[symbol] = q
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
