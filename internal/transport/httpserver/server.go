package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/avelasco/portfolio-dashboard/config"
	"github.com/avelasco/portfolio-dashboard/internal/model"
	customMW "github.com/avelasco/portfolio-dashboard/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Service interface {
	BuildSnapshot(ctx context.Context) (snapshot model.PortfolioSnapshot, err error)
	GetPositions(ctx context.Context) (positions []model.Position, err error)
	CreatePosition(ctx context.Context, draft model.PositionDraft) (position model.Position, err error)
	UpdatePosition(ctx context.Context, id int64, upd model.PositionUpdate) (err error)
	GeneratePortfolioReport(ctx context.Context) (fileBytes []byte, fileExtension string, err error)
}

type Presenter interface {
	Snapshot() model.PortfolioSnapshot
}

type Server struct {
	cfg       *config.Config
	service   Service
	presenter Presenter
	server    *http.Server
}

func New(cfg *config.Config, service Service, presenter Presenter) *Server {
	s := &Server{
		cfg:       cfg,
		service:   service,
		presenter: presenter,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(customMW.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api/portfolio", s.handleGetPortfolio)
	r.Get("/api/portfolio/live", s.handleGetLivePortfolio)

	r.Route("/api/admin/positions", func(r chi.Router) {
		r.Get("/", s.handleListPositions)
		r.Post("/", s.handleCreatePosition)
		r.Get("/export", s.handleExportPositions)
		r.Put("/{id}", s.handleUpdatePosition)
	})

	return r
}

func (s *Server) Start() {
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", slog.String("err", err.Error()))
		}
	}()
	slog.Info("http server started", slog.Int("port", s.cfg.HTTP.Port))
}

func (s *Server) Stop() {
	slog.Info("start stopping http server")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
		return
	}

	slog.Info("http server stopped")
}
