// Package memory implements the domain store interfaces in process. It backs
// the test suites and the STORE_BACKEND=memory development mode; nothing
// survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
)

// Store is a concurrency-safe in-memory implementation of domain.Store.
type Store struct {
	mu sync.RWMutex

	measurements []domain.HourlyMeasurement
	reports      []domain.ReportDocument
	summaries    map[string]domain.DailySummary  // key: date
	snapshots    map[string]domain.TrendSnapshot // key: location, newest wins
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		summaries: make(map[string]domain.DailySummary),
		snapshots: make(map[string]domain.TrendSnapshot),
	}
}

// MeasurementsSince returns measurements at or after since, oldest first.
// An empty location matches all locations.
func (s *Store) MeasurementsSince(_ context.Context, since time.Time, location string) ([]domain.HourlyMeasurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.HourlyMeasurement
	for _, m := range s.measurements {
		if m.Timestamp.Before(since) {
			continue
		}
		if location != "" && m.Tags.Location != location {
			continue
		}
		result = append(result, m)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// InsertMeasurements appends a batch of measurements.
func (s *Store) InsertMeasurements(_ context.Context, measurements []domain.HourlyMeasurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.measurements = append(s.measurements, measurements...)
	return nil
}

// LatestReportSince returns the newest report created at or after since, or
// domain.ErrNotFound.
func (s *Store) LatestReportSince(_ context.Context, since time.Time) (*domain.ReportDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *domain.ReportDocument
	for i := range s.reports {
		r := &s.reports[i]
		if r.CreatedAt.Before(since) {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	out := *newest
	return &out, nil
}

// LatestReport returns the newest report regardless of age, or domain.ErrNotFound.
func (s *Store) LatestReport(ctx context.Context) (*domain.ReportDocument, error) {
	return s.LatestReportSince(ctx, time.Time{})
}

// ReportByDate returns the newest report for a YYYY-MM-DD date, or domain.ErrNotFound.
func (s *Store) ReportByDate(_ context.Context, date string) (*domain.ReportDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *domain.ReportDocument
	for i := range s.reports {
		r := &s.reports[i]
		if r.Date != date {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	out := *newest
	return &out, nil
}

// InsertReport stores a finished report.
func (s *Store) InsertReport(_ context.Context, report domain.ReportDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// DailySummary returns the rollup for a date, or domain.ErrNotFound.
func (s *Store) DailySummary(_ context.Context, date string) (*domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &summary, nil
}

// PutDailySummary stores a rollup for tests and seeding.
func (s *Store) PutDailySummary(summary domain.DailySummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.Date] = summary
}

// LatestTrendSnapshot returns the newest stored trend set for a location, or
// domain.ErrNotFound.
func (s *Store) LatestTrendSnapshot(_ context.Context, location string) (*domain.TrendSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[location]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &snapshot, nil
}

// PutTrendSnapshot stores a trend snapshot, keeping only the newest per
// location the way the freshest document wins a sorted Mongo query.
func (s *Store) PutTrendSnapshot(snapshot domain.TrendSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.snapshots[snapshot.Location]
	if ok && existing.Timestamp.After(snapshot.Timestamp) {
		return
	}
	s.snapshots[snapshot.Location] = snapshot
}

// Ping always succeeds; the in-process store has no connection to lose.
func (s *Store) Ping(context.Context) error {
	return nil
}
