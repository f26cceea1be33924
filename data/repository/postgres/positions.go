package postgres

import (
	"context"
	"log/slog"

	"github.com/avelasco/portfolio-dashboard/data/repository"
	"github.com/avelasco/portfolio-dashboard/internal/converter/dbConverter"
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/model/dbModel"
	"github.com/avelasco/portfolio-dashboard/utils"
)

func (r *Postgres) getPositions(ctx context.Context, op, query string) (positions []model.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("getPositions start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("getPositions failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("getPositions completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var position dbModel.Position
		err = rows.StructScan(&position)
		if err != nil {
			return nil, err
		}
		positions = append(positions, dbConverter.ConvertPosition(position))
	}

	return positions, nil
}

func (r *Postgres) GetActivePositions(ctx context.Context) (positions []model.Position, err error) {
	query := `
		SELECT id, ticket, entryprice, quantity, active
		FROM stocks
		WHERE active = true
		ORDER BY id ASC
		`

	return r.getPositions(ctx, "Postgres.GetActivePositions", query)
}

func (r *Postgres) GetAllPositions(ctx context.Context) (positions []model.Position, err error) {
	query := `
		SELECT id, ticket, entryprice, quantity, active
		FROM stocks
		ORDER BY id ASC
		`

	return r.getPositions(ctx, "Postgres.GetAllPositions", query)
}

func (r *Postgres) InsertPosition(ctx context.Context, draft model.PositionDraft) (position model.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertPosition"
	query := `
		INSERT INTO stocks(ticket, entryprice, quantity, active)
		VALUES($1, $2, $3, $4)
		RETURNING id, ticket, entryprice, quantity, active
		`

	slog.Debug("InsertPosition start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("draft", draft))
	defer func() {
		if err != nil {
			slog.Error("InsertPosition failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertPosition completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbPosition := dbModel.Position{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, draft.Ticket, draft.EntryPrice, draft.Quantity, draft.Active).StructScan(&dbPosition)
	if err != nil {
		return model.Position{}, err
	}

	return dbConverter.ConvertPosition(dbPosition), nil
}

func (r *Postgres) UpdatePosition(ctx context.Context, id int64, upd model.PositionUpdate) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdatePosition"
	params := map[string]any{
		"id":  id,
		"upd": upd,
	}
	query := `
		UPDATE stocks
		SET ticket = $1, entryprice = $2, active = $3
		WHERE id = $4
		`

	slog.Debug("UpdatePosition start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpdatePosition failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdatePosition completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, upd.Ticket, upd.EntryPrice, upd.Active, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
