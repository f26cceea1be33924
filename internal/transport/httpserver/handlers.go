package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/service"
	"github.com/avelasco/portfolio-dashboard/utils"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createPositionRequest struct {
	Ticket     string          `json:"ticket"`
	EntryPrice decimal.Decimal `json:"entryprice"`
	Quantity   int             `json:"quantity"`
	Active     bool            `json:"active"`
}

type updatePositionRequest struct {
	Ticket     string          `json:"ticket"`
	EntryPrice decimal.Decimal `json:"entryprice"`
	Active     bool            `json:"active"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.BuildSnapshot(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "database error")
		return
	}

	s.writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server) handleGetLivePortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.presenter.Snapshot())
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.service.GetPositions(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "database error")
		return
	}

	if positions == nil {
		positions = []model.Position{}
	}

	s.writeJSON(w, r, http.StatusOK, positions)
}

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	req := createPositionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	position, err := s.service.CreatePosition(r.Context(), model.PositionDraft{
		Ticket:     req.Ticket,
		EntryPrice: req.EntryPrice,
		Quantity:   req.Quantity,
		Active:     req.Active,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			s.writeError(w, r, http.StatusBadRequest, "ticket, entry price and quantity are required")
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to create position")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, position)
}

func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid position id")
		return
	}

	req := updatePositionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err = s.service.UpdatePosition(r.Context(), id, model.PositionUpdate{
		Ticket:     req.Ticket,
		EntryPrice: req.EntryPrice,
		Active:     req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			s.writeError(w, r, http.StatusBadRequest, "ticket and entry price are required")
		case errors.Is(err, service.ErrNotFound):
			s.writeError(w, r, http.StatusNotFound, "position not found")
		default:
			s.writeError(w, r, http.StatusInternalServerError, "failed to update position")
		}
		return
	}

	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "position updated"})
}

func (s *Server) handleExportPositions(w http.ResponseWriter, r *http.Request) {
	fileBytes, fileExtension, err := s.service.GeneratePortfolioReport(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=portfolio%s", fileExtension))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rqID := utils.GetRequestIDFromCtx(r.Context())
		slog.Error("failed to encode response", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, messageResponse{Message: message})
}
