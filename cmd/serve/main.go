// Command serve runs the weather report service: the HTTP API, the
// twice-daily generation schedule, and the optional Kafka measurement feed.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/weather-report-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-report-service/internal/adapter/memory"
	mongoadapter "github.com/couchcryptid/weather-report-service/internal/adapter/mongo"
	"github.com/couchcryptid/weather-report-service/internal/adapter/openai"
	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
	"github.com/couchcryptid/weather-report-service/internal/scheduler"
	"github.com/couchcryptid/weather-report-service/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store domain.Store
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("using in-memory store, nothing will survive a restart")
		store = memory.NewStore()
	default:
		mongoStore, err := mongoadapter.NewStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				logger.Error("store close error", "error", err)
			}
		}()
		store = mongoStore
	}

	generator := openai.NewClient(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel, cfg.LLMTimeout, metrics, logger)
	reports := workflow.New(store, store, generator, logger, metrics, cfg.FreshnessWindow, cfg.Lookback)

	var schedule httpadapter.ScheduleSource
	if cfg.ScheduleEnabled {
		sched := scheduler.New(cfg.ScheduleCron, reports, logger)
		if err := sched.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
		schedule = sched
	} else {
		logger.Info("scheduled generation disabled")
	}

	if cfg.KafkaEnabled {
		feed := kafkaadapter.NewFeed(cfg, store, logger, metrics)
		defer func() {
			if err := feed.Close(); err != nil {
				logger.Error("measurement feed close error", "error", err)
			}
		}()
		go func() {
			if err := feed.Run(ctx); err != nil {
				logger.Error("measurement feed error", "error", err)
			}
		}()
	} else {
		logger.Info("measurement feed disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, reports, store, schedule, logger)
	go func() {
		// Listen returns nil after a graceful Shutdown.
		if err := srv.Start(); err != nil {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
