// Command generate runs one forced report generation and exits. It is the
// cron-friendly equivalent of the scheduled job inside cmd/serve: wire it to
// 6am and 6pm if you would rather let the host's crontab own the cadence.
//
// Exit code 1 on any failure so cron surfaces the run in its mail/log.
//
// Usage:
//
//	go run ./cmd/generate [-date 2025-06-01] [-location seattle]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-report-service/internal/adapter/memory"
	mongoadapter "github.com/couchcryptid/weather-report-service/internal/adapter/mongo"
	"github.com/couchcryptid/weather-report-service/internal/adapter/openai"
	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
	"github.com/couchcryptid/weather-report-service/internal/workflow"
)

const runTimeout = 5 * time.Minute

func main() {
	date := flag.String("date", "", "report date (YYYY-MM-DD), defaults to today UTC")
	location := flag.String("location", "", "restrict measurements to one location")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	var store domain.Store
	switch cfg.StoreBackend {
	case config.StoreMemory:
		// An empty in-memory store can only ever yield NoData; allowed for
		// smoke-testing the wiring.
		logger.Warn("using in-memory store")
		store = memory.NewStore()
	default:
		mongoStore, err := mongoadapter.NewStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = mongoStore.Close(context.Background()) }()
		store = mongoStore
	}

	generator := openai.NewClient(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel, cfg.LLMTimeout, metrics, logger)
	reports := workflow.New(store, store, generator, logger, metrics, cfg.FreshnessWindow, cfg.Lookback)

	logger.Info("starting forced report generation", "date", *date, "location", *location)

	result, err := reports.Generate(ctx, workflow.Request{
		Date:     *date,
		Force:    true,
		Location: *location,
	})
	if err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("report generated",
		"report_id", result.Report.ID,
		"date", result.Report.Date,
		"location", result.Report.Location,
		"confidence", result.Report.Confidence,
	)
}
