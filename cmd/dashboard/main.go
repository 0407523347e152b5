package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-insights-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-insights-dashboard/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/climate-insights-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/climate-insights-dashboard/internal/config"
	"github.com/couchcryptid/climate-insights-dashboard/internal/dashboard"
	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
	"github.com/couchcryptid/climate-insights-dashboard/internal/observability"
	"github.com/couchcryptid/climate-insights-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "batch_size", cfg.KafkaBatchSize)
	} else {
		logger.Info("kafka publishing disabled")
	}

	reader := csvfile.NewReader(cfg.DataPath, logger)
	transformer := pipeline.NewTransformer(logger, metrics)
	p := pipeline.New(reader, transformer, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := p.Run(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	defaults := domain.YearRange{From: cfg.DefaultYearFrom, To: cfg.DefaultYearTo}
	dash := dashboard.New(table, defaults, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, p, cfg.CORSAllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
