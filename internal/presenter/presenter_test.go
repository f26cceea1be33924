package presenter

import (
	"context"
	"testing"

	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	quotes      map[string]*model.Quote
	seenSymbols [][]string
}

func (f *fakeFetcher) FetchQuotes(ctx context.Context, symbols []string) []*model.Quote {
	f.seenSymbols = append(f.seenSymbols, symbols)

	quotes := make([]*model.Quote, len(symbols))
	for i, symbol := range symbols {
		quotes[i] = f.quotes[symbol]
	}
	return quotes
}

func primedPresenter(fetcher *fakeFetcher) *Presenter {
	p := New(fetcher)
	p.Prime(model.PortfolioSnapshot{
		Lines: []model.PortfolioLine{
			{
				Ticket:       "AAPL",
				Quantity:     10,
				EntryPrice:   decimal.NewFromInt(150),
				CurrentPrice: decimal.NewFromInt(160),
			},
			{
				Ticket:       "TSLA",
				Quantity:     4,
				EntryPrice:   decimal.NewFromInt(250),
				CurrentPrice: decimal.NewFromInt(240),
			},
		},
	})
	return p
}

func TestRefreshRecomputesLines(t *testing.T) {
	fetcher := &fakeFetcher{
		quotes: map[string]*model.Quote{
			"AAPL": {CurrentPrice: decimal.NewFromInt(165), DayChange: decimal.NewFromInt(5)},
			"TSLA": {CurrentPrice: decimal.NewFromInt(260)},
		},
	}
	p := primedPresenter(fetcher)

	err := p.Refresh(context.Background())
	require.NoError(t, err)

	snapshot := p.Snapshot()
	require.Len(t, snapshot.Lines, 2)

	assert.True(t, snapshot.Lines[0].CurrentPrice.Equal(decimal.NewFromInt(165)))
	assert.True(t, snapshot.Lines[0].UnrealizedPnlPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, snapshot.Lines[1].CurrentPrice.Equal(decimal.NewFromInt(260)))
	assert.True(t, snapshot.Summary.TotalValue.Equal(decimal.NewFromInt(2690)))
}

func TestRefreshKeepsPreviousValuesOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		quotes: map[string]*model.Quote{
			"AAPL": {CurrentPrice: decimal.NewFromInt(165)},
			// TSLA fetch fails: nil quote
		},
	}
	p := primedPresenter(fetcher)

	err := p.Refresh(context.Background())
	require.NoError(t, err)

	snapshot := p.Snapshot()
	assert.True(t, snapshot.Lines[0].CurrentPrice.Equal(decimal.NewFromInt(165)))
	// last successful fetch wins
	assert.True(t, snapshot.Lines[1].CurrentPrice.Equal(decimal.NewFromInt(240)))
}

func TestRefreshUsesPrimedSymbolSet(t *testing.T) {
	fetcher := &fakeFetcher{quotes: map[string]*model.Quote{}}
	p := primedPresenter(fetcher)

	require.NoError(t, p.Refresh(context.Background()))
	require.NoError(t, p.Refresh(context.Background()))

	require.Len(t, fetcher.seenSymbols, 2)
	assert.Equal(t, []string{"AAPL", "TSLA"}, fetcher.seenSymbols[0])
	assert.Equal(t, []string{"AAPL", "TSLA"}, fetcher.seenSymbols[1])
}

func TestRefreshWithoutPrimeIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := New(fetcher)

	require.NoError(t, p.Refresh(context.Background()))
	assert.Empty(t, fetcher.seenSymbols)
}

func TestSnapshotIsCompleteDuringRefresh(t *testing.T) {
	fetcher := &fakeFetcher{
		quotes: map[string]*model.Quote{
			"AAPL": {CurrentPrice: decimal.NewFromInt(165)},
			"TSLA": {CurrentPrice: decimal.NewFromInt(260)},
		},
	}
	p := primedPresenter(fetcher)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = p.Refresh(context.Background())
		}
	}()

	// readers must always observe a snapshot from exactly one cycle: either
	// both lines at their primed prices or both at the refreshed prices
	for i := 0; i < 1000; i++ {
		snapshot := p.Snapshot()
		require.Len(t, snapshot.Lines, 2)

		aaplOld := snapshot.Lines[0].CurrentPrice.Equal(decimal.NewFromInt(160))
		tslaOld := snapshot.Lines[1].CurrentPrice.Equal(decimal.NewFromInt(240))
		assert.Equal(t, aaplOld, tslaOld, "mixed snapshot observed")
	}

	<-done
}
