// Package presenter keeps the live dashboard snapshot that the refresh job
// re-quotes on a fixed interval. The symbol set is frozen when the snapshot
// is primed: positions added or edited afterwards only show up through a
// fresh snapshot build, which matches the original page behavior.
package presenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/valuation"
	"github.com/avelasco/portfolio-dashboard/utils"
)

type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) []*model.Quote
}

type Presenter struct {
	fetcher QuoteFetcher

	mu       sync.RWMutex
	snapshot model.PortfolioSnapshot
}

func New(fetcher QuoteFetcher) *Presenter {
	return &Presenter{fetcher: fetcher}
}

// Prime installs the initial snapshot and fixes the symbol set for all
// subsequent refresh cycles.
func (p *Presenter) Prime(snapshot model.PortfolioSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
}

// Snapshot returns the current complete snapshot. Refresh swaps the whole
// snapshot under the write lock, so a reader never sees lines from two
// different cycles.
func (p *Presenter) Snapshot() model.PortfolioSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Refresh re-fetches quotes for the primed symbol set and recomputes every
// line and the summary. A failed quote keeps that line's previous values.
// Scheduled as a singleton interval job, so cycles never overlap.
func (p *Presenter) Refresh(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Presenter.Refresh"

	prev := p.Snapshot()
	if len(prev.Lines) == 0 {
		slog.Debug("nothing to refresh", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	symbols := make([]string, 0, len(prev.Lines))
	for _, line := range prev.Lines {
		symbols = append(symbols, line.Ticket)
	}

	quotes := p.fetcher.FetchQuotes(ctx, symbols)

	lines := make([]model.PortfolioLine, 0, len(prev.Lines))
	for i, line := range prev.Lines {
		if quotes[i] == nil {
			// last successful fetch wins
			lines = append(lines, line)
			continue
		}

		pos := model.Position{
			Ticket:     line.Ticket,
			EntryPrice: line.EntryPrice,
			Quantity:   line.Quantity,
		}
		lines = append(lines, valuation.Valuate(pos, quotes[i]))
	}

	next := model.PortfolioSnapshot{
		Lines:   lines,
		Summary: valuation.Summarize(lines),
	}

	p.mu.Lock()
	p.snapshot = next
	p.mu.Unlock()

	return nil
}
