package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelasco/portfolio-dashboard/config"
	"github.com/avelasco/portfolio-dashboard/data"
	"github.com/avelasco/portfolio-dashboard/data/repository/postgres"
	"github.com/avelasco/portfolio-dashboard/internal/externalApi/finnhubApi"
	"github.com/avelasco/portfolio-dashboard/internal/presenter"
	"github.com/avelasco/portfolio-dashboard/internal/reportGenerator/xlsxGenerator"
	"github.com/avelasco/portfolio-dashboard/internal/scheduler"
	"github.com/avelasco/portfolio-dashboard/internal/service/portfolioService"
	"github.com/avelasco/portfolio-dashboard/internal/transport/httpserver"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	finnhubApiClient := finnhubApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	portfolioSrv := portfolioService.New(pgRepo, finnhubApiClient, reportGenerator)

	livePresenter := presenter.New(portfolioSrv)

	// initial snapshot fixes the live view's symbol set until restart
	snapshot, err := portfolioSrv.BuildSnapshot(context.Background())
	if err != nil {
		slog.Error("failed to build initial snapshot", slog.String("err", err.Error()))
		panic(err)
	}
	livePresenter.Prime(snapshot)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh quotes", livePresenter.Refresh, cfg.Jobs.QuoteRefreshInterval, false)
	sched.Start()
	defer sched.Stop()

	httpServer := httpserver.New(cfg, portfolioSrv, livePresenter)
	httpServer.Start()
	defer httpServer.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
