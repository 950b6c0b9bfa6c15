package domain

import (
	"context"
	"time"
)

// MeasurementStore reads and writes hourly measurements. Reads return
// documents in ascending timestamp order; the trend analyzer depends on it.
type MeasurementStore interface {
	// MeasurementsSince returns measurements with timestamps at or after
	// since, oldest first. An empty location matches all locations.
	MeasurementsSince(ctx context.Context, since time.Time, location string) ([]HourlyMeasurement, error)

	// InsertMeasurements stores a batch of measurements. Used by the
	// optional ingestion feed and by seeding tools, never by the workflow.
	InsertMeasurements(ctx context.Context, measurements []HourlyMeasurement) error
}

// ReportStore reads and writes generated reports.
type ReportStore interface {
	// LatestReportSince returns the newest report created at or after since,
	// or ErrNotFound.
	LatestReportSince(ctx context.Context, since time.Time) (*ReportDocument, error)

	// LatestReport returns the newest report regardless of age, or ErrNotFound.
	LatestReport(ctx context.Context) (*ReportDocument, error)

	// ReportByDate returns the newest report for a YYYY-MM-DD date, or ErrNotFound.
	ReportByDate(ctx context.Context, date string) (*ReportDocument, error)

	// InsertReport stores a finished report. Insert-only; IDs never collide
	// because the workflow assigns a fresh UUID per document.
	InsertReport(ctx context.Context, report ReportDocument) error
}

// SummaryStore reads the rollup documents written by the upstream
// aggregation pipeline.
type SummaryStore interface {
	// DailySummary returns the rollup for a YYYY-MM-DD date, or ErrNotFound.
	DailySummary(ctx context.Context, date string) (*DailySummary, error)

	// LatestTrendSnapshot returns the newest stored trend set for a
	// location, or ErrNotFound.
	LatestTrendSnapshot(ctx context.Context, location string) (*TrendSnapshot, error)
}

// Store is the full persistence surface the service wires at startup.
type Store interface {
	MeasurementStore
	ReportStore
	SummaryStore

	// Ping verifies connectivity. Backs the readiness probe.
	Ping(ctx context.Context) error
}
