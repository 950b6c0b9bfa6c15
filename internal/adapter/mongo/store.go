// Package mongo implements the domain store interfaces against the MongoDB
// collections the wider weather system shares: hourly_measurements written by
// the ingestion pipeline, weather_predictions owned by this service, plus the
// read-only daily_reports and trends rollups.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/domain"
)

const (
	collMeasurements = "hourly_measurements"
	collReports      = "weather_predictions"
	collSummaries    = "daily_reports"
	collTrends       = "trends"

	connectTimeout = 10 * time.Second
)

// Store is a MongoDB-backed implementation of domain.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// NewStore connects to MongoDB and verifies the connection before returning.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.MongoDB),
		logger: logger,
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies connectivity. Backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// MeasurementsSince returns measurements at or after since in ascending
// timestamp order. Documents that fail to decode into the typed record are
// skipped and counted rather than failing the whole window.
func (s *Store) MeasurementsSince(ctx context.Context, since time.Time, location string) ([]domain.HourlyMeasurement, error) {
	filter := bson.M{"timestamp_ms": bson.M{"$gte": since}}
	if location != "" {
		filter["tags.location"] = location
	}

	cursor, err := s.db.Collection(collMeasurements).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp_ms", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer cursor.Close(ctx)

	var measurements []domain.HourlyMeasurement
	var skipped int
	for cursor.Next(ctx) {
		var m domain.HourlyMeasurement
		if err := cursor.Decode(&m); err != nil {
			skipped++
			continue
		}
		measurements = append(measurements, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped undecodable measurement documents", "skipped", skipped)
	}
	return measurements, nil
}

// InsertMeasurements stores a batch of measurements. Used by the optional
// ingestion feed and by seeding tools.
func (s *Store) InsertMeasurements(ctx context.Context, measurements []domain.HourlyMeasurement) error {
	if len(measurements) == 0 {
		return nil
	}
	docs := make([]any, len(measurements))
	for i := range measurements {
		docs[i] = measurements[i]
	}
	if _, err := s.db.Collection(collMeasurements).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert measurements: %w", err)
	}
	return nil
}

// LatestReportSince returns the newest report created at or after since, or
// domain.ErrNotFound.
func (s *Store) LatestReportSince(ctx context.Context, since time.Time) (*domain.ReportDocument, error) {
	return s.findReport(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// LatestReport returns the newest report regardless of age, or domain.ErrNotFound.
func (s *Store) LatestReport(ctx context.Context) (*domain.ReportDocument, error) {
	return s.findReport(ctx, bson.M{})
}

// ReportByDate returns the newest report for a YYYY-MM-DD date, or
// domain.ErrNotFound. Newest wins because forced regenerations can leave
// several documents for the same date.
func (s *Store) ReportByDate(ctx context.Context, date string) (*domain.ReportDocument, error) {
	return s.findReport(ctx, bson.M{"date": date})
}

func (s *Store) findReport(ctx context.Context, filter bson.M) (*domain.ReportDocument, error) {
	var report domain.ReportDocument
	err := s.db.Collection(collReports).FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	return &report, nil
}

// InsertReport stores a finished report.
func (s *Store) InsertReport(ctx context.Context, report domain.ReportDocument) error {
	if _, err := s.db.Collection(collReports).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// DailySummary returns the rollup for a YYYY-MM-DD date, or domain.ErrNotFound.
func (s *Store) DailySummary(ctx context.Context, date string) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := s.db.Collection(collSummaries).FindOne(ctx, bson.M{"date": date}).Decode(&summary)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}
	return &summary, nil
}

// LatestTrendSnapshot returns the newest stored trend set for a location, or
// domain.ErrNotFound.
func (s *Store) LatestTrendSnapshot(ctx context.Context, location string) (*domain.TrendSnapshot, error) {
	var snapshot domain.TrendSnapshot
	err := s.db.Collection(collTrends).FindOne(ctx, bson.M{"location": location},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query trend snapshot: %w", err)
	}
	return &snapshot, nil
}
