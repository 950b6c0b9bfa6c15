// Package scheduler drives the twice-daily report generation the source
// system ran from cron. Scheduled runs always force regeneration; the
// freshness gate only protects on-demand triggers between them.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/workflow"
)

// runTimeout bounds one scheduled generation, covering the measurement
// fetch, the LLM call, and the insert.
const runTimeout = 5 * time.Minute

// ReportGenerator triggers one report generation run.
type ReportGenerator interface {
	Generate(ctx context.Context, req workflow.Request) (workflow.Result, error)
}

// Scheduler periodically forces report generation.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
	reports   ReportGenerator
	cronExpr  string
	logger    *slog.Logger
}

// New creates a Scheduler for the given cron expression, evaluated in UTC.
func New(cronExpr string, reports ReportGenerator, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reports:   reports,
		cronExpr:  cronExpr,
		logger:    logger,
	}
}

// Start registers the generation job and starts the scheduler in the
// background.
func (s *Scheduler) Start() error {
	job, err := s.scheduler.Cron(s.cronExpr).Do(s.run)
	if err != nil {
		return fmt.Errorf("schedule generation job: %w", err)
	}
	s.job = job
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "cron", s.cronExpr, "next_run", job.NextRun().UTC())
	return nil
}

// Stop stops the scheduler and cancels any future jobs. A run already in
// flight finishes.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Info reports the schedule in the source system's wire format. The last
// prediction timestamp is filled in by the API layer from the report store.
func (s *Scheduler) Info() domain.ScheduleInfo {
	info := domain.ScheduleInfo{
		ScheduleFrequency: fmt.Sprintf("cron %s (UTC)", s.cronExpr),
	}
	if s.job != nil {
		if next := s.job.NextRun(); !next.IsZero() {
			info.NextPrediction = next.UTC().Format(time.RFC3339)
		}
	}
	return info
}

// run executes one scheduled generation. Failures are logged, not
// propagated; the next scheduled run is the retry.
func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.logger.Info("running scheduled report generation")
	result, err := s.reports.Generate(ctx, workflow.Request{Force: true})
	if err != nil {
		s.logger.Error("scheduled report generation failed", "error", err)
		return
	}
	s.logger.Info("scheduled report generation complete",
		"report_id", result.Report.ID,
		"date", result.Report.Date,
		"confidence", result.Report.Confidence,
	)
}
