package portfolioService

import (
	"context"
	"errors"
	"testing"

	"github.com/avelasco/portfolio-dashboard/data/repository"
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	active    []model.Position
	all       []model.Position
	activeErr error

	inserted  *model.PositionDraft
	insertErr error

	updatedID int64
	updated   *model.PositionUpdate
	updateErr error
	nextID    int64
}

func (f *fakeRepo) GetActivePositions(ctx context.Context) ([]model.Position, error) {
	return f.active, f.activeErr
}

func (f *fakeRepo) GetAllPositions(ctx context.Context) ([]model.Position, error) {
	return f.all, nil
}

func (f *fakeRepo) InsertPosition(ctx context.Context, draft model.PositionDraft) (model.Position, error) {
	if f.insertErr != nil {
		return model.Position{}, f.insertErr
	}
	f.inserted = &draft
	return model.Position{
		ID:         f.nextID,
		Ticket:     draft.Ticket,
		EntryPrice: draft.EntryPrice,
		Quantity:   draft.Quantity,
		Active:     draft.Active,
	}, nil
}

func (f *fakeRepo) UpdatePosition(ctx context.Context, id int64, upd model.PositionUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updated = &upd
	return nil
}

type fakeQuoteApi struct {
	quotes  map[string]model.Quote
	failing map[string]bool
}

func (f *fakeQuoteApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if f.failing[symbol] {
		return model.Quote{}, errors.New("provider unavailable")
	}
	quote, ok := f.quotes[symbol]
	if !ok {
		return model.Quote{}, errors.New("unknown symbol")
	}
	return quote, nil
}

func TestBuildSnapshotKeepsPositionOrder(t *testing.T) {
	repo := &fakeRepo{
		active: []model.Position{
			{ID: 1, Ticket: "AAPL", EntryPrice: decimal.NewFromInt(150), Quantity: 10, Active: true},
			{ID: 2, Ticket: "TSLA", EntryPrice: decimal.NewFromInt(250), Quantity: 4, Active: true},
			{ID: 3, Ticket: "NVDA", EntryPrice: decimal.NewFromInt(200), Quantity: 2, Active: true},
		},
	}
	quoteApi := &fakeQuoteApi{
		quotes: map[string]model.Quote{
			"AAPL": {CurrentPrice: decimal.NewFromInt(165), DayChange: decimal.NewFromInt(5), PercentChangeDay: decimal.NewFromFloat(3.33)},
			"TSLA": {CurrentPrice: decimal.NewFromInt(260)},
			"NVDA": {CurrentPrice: decimal.NewFromInt(150)},
		},
	}

	srv := New(repo, quoteApi, nil)

	snapshot, err := srv.BuildSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Lines, 3)

	assert.Equal(t, "AAPL", snapshot.Lines[0].Ticket)
	assert.Equal(t, "TSLA", snapshot.Lines[1].Ticket)
	assert.Equal(t, "NVDA", snapshot.Lines[2].Ticket)

	assert.True(t, snapshot.Lines[0].CurrentPrice.Equal(decimal.NewFromInt(165)))
	assert.True(t, snapshot.Lines[0].UnrealizedPnlPercent.Equal(decimal.NewFromInt(10)))
}

func TestBuildSnapshotDegradesFailedQuotes(t *testing.T) {
	repo := &fakeRepo{
		active: []model.Position{
			{ID: 1, Ticket: "AAPL", EntryPrice: decimal.NewFromInt(150), Quantity: 10, Active: true},
			{ID: 2, Ticket: "TSLA", EntryPrice: decimal.NewFromInt(250), Quantity: 4, Active: true},
		},
	}
	quoteApi := &fakeQuoteApi{
		quotes: map[string]model.Quote{
			"AAPL": {CurrentPrice: decimal.NewFromInt(165)},
		},
		failing: map[string]bool{"TSLA": true},
	}

	srv := New(repo, quoteApi, nil)

	snapshot, err := srv.BuildSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Lines, 2)

	// failed line falls back to zero quote values; the pnl guard is on the
	// entry price, so it reads as a full loss
	tsla := snapshot.Lines[1]
	assert.True(t, tsla.CurrentPrice.IsZero())
	assert.True(t, tsla.UnrealizedPnlPercent.Equal(decimal.NewFromInt(-100)))

	// total value only carries the surviving line
	assert.True(t, snapshot.Summary.TotalValue.Equal(decimal.NewFromInt(1650)))
	assert.True(t, snapshot.Summary.TotalCost.Equal(decimal.NewFromInt(2500)))
}

func TestBuildSnapshotEmptyPortfolio(t *testing.T) {
	srv := New(&fakeRepo{}, &fakeQuoteApi{}, nil)

	snapshot, err := srv.BuildSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)
	assert.True(t, snapshot.Summary.ReturnPercent.IsZero())
}

func TestCreatePositionValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft model.PositionDraft
	}{
		{name: "missing ticket", draft: model.PositionDraft{EntryPrice: decimal.NewFromInt(10), Quantity: 1}},
		{name: "missing entry price", draft: model.PositionDraft{Ticket: "AAPL", Quantity: 1}},
		{name: "missing quantity", draft: model.PositionDraft{Ticket: "AAPL", EntryPrice: decimal.NewFromInt(10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			srv := New(repo, &fakeQuoteApi{}, nil)

			_, err := srv.CreatePosition(context.Background(), tt.draft)
			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Nil(t, repo.inserted, "nothing must be inserted on validation failure")
		})
	}
}

func TestCreatePositionUppercasesTicket(t *testing.T) {
	repo := &fakeRepo{nextID: 7}
	srv := New(repo, &fakeQuoteApi{}, nil)

	position, err := srv.CreatePosition(context.Background(), model.PositionDraft{
		Ticket:     "aapl",
		EntryPrice: decimal.NewFromInt(150),
		Quantity:   10,
		Active:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), position.ID)
	assert.Equal(t, "AAPL", position.Ticket)
}

func TestUpdatePositionNotFound(t *testing.T) {
	repo := &fakeRepo{updateErr: repository.ErrNotFound}
	srv := New(repo, &fakeQuoteApi{}, nil)

	err := srv.UpdatePosition(context.Background(), 99, model.PositionUpdate{
		Ticket:     "AAPL",
		EntryPrice: decimal.NewFromInt(150),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdatePositionValidation(t *testing.T) {
	repo := &fakeRepo{}
	srv := New(repo, &fakeQuoteApi{}, nil)

	err := srv.UpdatePosition(context.Background(), 1, model.PositionUpdate{Ticket: "AAPL"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Nil(t, repo.updated)
}
