package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/avelasco/portfolio-dashboard/data/repository"
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/service"
	"github.com/avelasco/portfolio-dashboard/internal/valuation"
	"github.com/avelasco/portfolio-dashboard/utils"
)

type QuoteApi interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

type Repository interface {
	GetActivePositions(ctx context.Context) (positions []model.Position, err error)
	GetAllPositions(ctx context.Context) (positions []model.Position, err error)
	InsertPosition(ctx context.Context, draft model.PositionDraft) (position model.Position, err error)
	UpdatePosition(ctx context.Context, id int64, upd model.PositionUpdate) (err error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, snapshot model.PortfolioSnapshot) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	repo            Repository
	quoteApi        QuoteApi
	reportGenerator ReportGenerator
}

func New(repo Repository, quoteApi QuoteApi, reportGenerator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		repo:            repo,
		quoteApi:        quoteApi,
		reportGenerator: reportGenerator,
	}
}

// FetchQuotes fans out one request per symbol and waits for all of them to
// settle. The result slice is index-aligned with symbols; a failed fetch
// leaves a nil entry and the caller falls back to defaults for that line.
func (s *PortfolioService) FetchQuotes(ctx context.Context, symbols []string) []*model.Quote {
	quotes := make([]*model.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := s.quoteApi.GetQuote(ctx, symbol)
			if err != nil {
				// recovered locally: the line keeps its defaults
				return
			}
			quotes[i] = &quote
		}(i, symbol)
	}
	wg.Wait()

	return quotes
}

// BuildSnapshot reads the active positions and values each of them against a
// freshly fetched quote. Output lines keep the position order. A single
// failed quote degrades only its own line.
func (s *PortfolioService) BuildSnapshot(ctx context.Context) (snapshot model.PortfolioSnapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.BuildSnapshot"

	slog.Debug("BuildSnapshot start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("BuildSnapshot finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	positions, err := s.repo.GetActivePositions(ctx)
	if err != nil {
		slog.Error("got error from repo.GetActivePositions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioSnapshot{}, err
	}

	symbols := make([]string, 0, len(positions))
	for _, position := range positions {
		symbols = append(symbols, position.Ticket)
	}

	quotes := s.FetchQuotes(ctx, symbols)

	lines := make([]model.PortfolioLine, 0, len(positions))
	for i, position := range positions {
		lines = append(lines, valuation.Valuate(position, quotes[i]))
	}

	return model.PortfolioSnapshot{
		Lines:   lines,
		Summary: valuation.Summarize(lines),
	}, nil
}

func (s *PortfolioService) GetPositions(ctx context.Context) (positions []model.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPositions"

	slog.Debug("GetPositions start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetPositions finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	positions, err = s.repo.GetAllPositions(ctx)
	if err != nil {
		slog.Error("got error from repo.GetAllPositions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return positions, nil
}

func (s *PortfolioService) CreatePosition(ctx context.Context, draft model.PositionDraft) (position model.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreatePosition"

	slog.Debug("CreatePosition start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("draft", draft))
	defer func() {
		slog.Debug("CreatePosition finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if draft.Ticket == "" || draft.EntryPrice.IsZero() || draft.Quantity == 0 {
		return model.Position{}, service.ErrValidation
	}

	draft.Ticket = strings.ToUpper(draft.Ticket)

	position, err = s.repo.InsertPosition(ctx, draft)
	if err != nil {
		slog.Error("got error from repo.InsertPosition", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Position{}, err
	}

	return position, nil
}

func (s *PortfolioService) UpdatePosition(ctx context.Context, id int64, upd model.PositionUpdate) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdatePosition"

	slog.Debug("UpdatePosition start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id), slog.Any("upd", upd))
	defer func() {
		slog.Debug("UpdatePosition finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	}()

	if upd.Ticket == "" || upd.EntryPrice.IsZero() {
		return service.ErrValidation
	}

	upd.Ticket = strings.ToUpper(upd.Ticket)

	// last-writer-wins on concurrent updates, accepted for a single-user panel
	err = s.repo.UpdatePosition(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("position not found", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
			return service.ErrNotFound
		}
		slog.Error("got error from repo.UpdatePosition", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (s *PortfolioService) GeneratePortfolioReport(ctx context.Context) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GeneratePortfolioReport"

	slog.Debug("GeneratePortfolioReport start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GeneratePortfolioReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	snapshot, err := s.BuildSnapshot(ctx)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.reportGenerator.Generate(ctx, snapshot)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}
