package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// MeasurementSource provides the measurement window feeding one report.
type MeasurementSource interface {
	MeasurementsSince(ctx context.Context, since time.Time, location string) ([]domain.HourlyMeasurement, error)
}

// ReportSink answers freshness checks and stores finished reports.
type ReportSink interface {
	LatestReportSince(ctx context.Context, since time.Time) (*domain.ReportDocument, error)
	InsertReport(ctx context.Context, report domain.ReportDocument) error
}

// Request carries the trigger parameters for one generation run.
type Request struct {
	// Date in YYYY-MM-DD form; empty means today (UTC).
	Date string
	// Force skips the freshness gate.
	Force bool
	// Location restricts the measurement fetch; empty matches all locations.
	Location string
}

// Result of a generation run. Reused is true when a stored report inside the
// freshness window satisfied the request without calling the generation API.
type Result struct {
	Report *domain.ReportDocument
	Reused bool
}

// Workflow runs the report generation stages: freshness gate, measurement
// fetch, aggregation, trend analysis, generation, persistence. Stages run in
// order and the first failure is terminal; there are no internal retries and
// nothing to roll back because the only write happens last.
type Workflow struct {
	source    MeasurementSource
	sink      ReportSink
	generator domain.Generator
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock

	window   time.Duration
	lookback time.Duration
}

// New creates a Workflow with the given stages and observability.
func New(source MeasurementSource, sink ReportSink, generator domain.Generator, logger *slog.Logger, metrics *observability.Metrics, window, lookback time.Duration) *Workflow {
	return &Workflow{
		source:    source,
		sink:      sink,
		generator: generator,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		window:    window,
		lookback:  lookback,
	}
}

// SetClock swaps the workflow's time source. Tests use it together with
// domain.SetClock so freshness decisions and document timestamps agree.
func (w *Workflow) SetClock(c clockwork.Clock) {
	if c == nil {
		w.clock = clockwork.NewRealClock()
		return
	}
	w.clock = c
}

// Generate runs one report generation. Concurrent calls are safe; the
// workflow holds no cross-run state. Two concurrent forced runs may both
// store a document, which is accepted rather than locked against.
func (w *Workflow) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	w.metrics.GenerationInFlight.Set(1)
	defer w.metrics.GenerationInFlight.Set(0)

	now := w.clock.Now().UTC()
	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	log := w.logger.With("date", date, "force", req.Force)

	if existing, ok := w.freshReport(ctx, log, now, req.Force); ok {
		w.metrics.ReportsReused.Inc()
		return Result{Report: existing, Reused: true}, nil
	}

	measurements, err := w.fetchMeasurements(ctx, log, now, req.Location)
	if err != nil {
		return Result{}, err
	}
	location := measurements[0].Location()
	log.Info("retrieved measurement window", "measurements", len(measurements), "location", location)

	summary := domain.Summarize(measurements)
	if summary == nil {
		err := fmt.Errorf("%w: measurements aggregated to nothing", domain.ErrNoData)
		w.recordFailure(err)
		log.Error("summary aggregation failed", "error", err)
		return Result{}, err
	}

	trends := domain.AnalyzeTrends(measurements)
	if len(trends) == 0 {
		log.Warn("not enough measurements to analyze trends, proceeding without trend data")
	}

	fields, err := w.generate(ctx, log, date, location, summary, trends)
	if err != nil {
		return Result{}, err
	}

	report := domain.NewReportDocument(date, location, fields)
	if err := w.sink.InsertReport(ctx, report); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		w.recordFailure(err)
		log.Error("store report failed", "error", err)
		return Result{}, err
	}

	w.metrics.ReportsGenerated.Inc()
	w.metrics.MeasurementsAnalyzed.Observe(float64(len(measurements)))
	w.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	log.Info("report stored",
		"report_id", report.ID,
		"location", location,
		"confidence", report.Confidence,
		"measurements", len(measurements),
	)
	return Result{Report: &report}, nil
}

// freshReport consults the freshness gate. A store error here is logged and
// treated as no recent report: generation proceeds rather than failing the
// whole run over a read that only exists to save work.
func (w *Workflow) freshReport(ctx context.Context, log *slog.Logger, now time.Time, force bool) (*domain.ReportDocument, bool) {
	if force {
		return nil, false
	}

	existing, err := w.sink.LatestReportSince(ctx, now.Add(-w.window))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("freshness check failed, generating anyway", "error", err)
		}
		return nil, false
	}
	if domain.NeedsRegeneration(existing.CreatedAt, now, w.window, force) {
		return nil, false
	}

	log.Info("recent report found, skipping generation",
		"report_id", existing.ID,
		"created_at", existing.CreatedAt,
	)
	return existing, true
}

// fetchMeasurements loads the lookback window. Both a failed read and an
// empty window surface as ErrNoData; the caller cannot act on the
// difference and the store logs carry the detail.
func (w *Workflow) fetchMeasurements(ctx context.Context, log *slog.Logger, now time.Time, location string) ([]domain.HourlyMeasurement, error) {
	since := now.Add(-w.lookback)

	measurements, err := w.source.MeasurementsSince(ctx, since, location)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrNoData, err)
		w.recordFailure(err)
		log.Error("fetch measurements failed", "error", err)
		return nil, err
	}
	if len(measurements) == 0 {
		err := fmt.Errorf("%w: no hourly measurements in the last %s", domain.ErrNoData, w.lookback)
		w.recordFailure(err)
		log.Error("fetch measurements failed", "error", err)
		return nil, err
	}
	return measurements, nil
}

// generate builds the prompt, calls the generation API, and parses the
// response into report fields.
func (w *Workflow) generate(ctx context.Context, log *slog.Logger, date, location string, summary domain.Summary, trends map[string]domain.TrendEntry) (domain.ReportFields, error) {
	prompt := domain.BuildPrompt(date, location, summary, trends)

	raw, err := w.generator.Generate(ctx, prompt)
	if err != nil {
		w.recordFailure(err)
		log.Error("generation call failed", "error", err)
		return domain.ReportFields{}, err
	}

	fields, err := domain.ParseReportFields(raw)
	if err != nil {
		w.recordFailure(err)
		log.Error("parse generation response failed", "error", err)
		return domain.ReportFields{}, err
	}
	return fields, nil
}

func (w *Workflow) recordFailure(err error) {
	w.metrics.GenerationErrors.WithLabelValues(errorKind(err)).Inc()
}

// errorKind maps a classified error to its metric label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	case errors.Is(err, domain.ErrGenerationUnavailable):
		return "generation_unavailable"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "persistence_failure"
	default:
		return "internal"
	}
}
