// Package kafka taps the upstream ingestion topic into the measurement
// store. The feed is optional and feature-flagged; most deployments read
// measurements the ingestion pipeline already wrote to MongoDB.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// Feed consumes hourly measurement messages and stores them.
type Feed struct {
	reader  *kafkago.Reader
	store   domain.MeasurementStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFeed creates a consumer for the configured measurements topic.
func NewFeed(cfg *config.Config, store domain.MeasurementStore, logger *slog.Logger, metrics *observability.Metrics) *Feed {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Feed{reader: r, store: store, logger: logger, metrics: metrics}
}

// Run consumes until ctx is canceled. Offsets are committed only after the
// measurement is stored, so a crash between insert and commit replays the
// message; duplicate hourly documents are harmless to the aggregation, which
// divides by sample count. Malformed messages are committed and counted so a
// poison pill cannot wedge the partition.
func (f *Feed) Run(ctx context.Context) error {
	f.logger.Info("measurement feed starting", "topic", f.reader.Config().Topic)

	for {
		msg, err := f.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("fetch measurement message: %w", err)
		}

		measurement, err := decodeMeasurement(msg.Value)
		if err != nil {
			f.metrics.FeedMessages.WithLabelValues("skipped").Inc()
			f.logger.Warn("skipping malformed measurement message",
				"error", err, "partition", msg.Partition, "offset", msg.Offset)
			if err := f.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit skipped message: %w", err)
			}
			continue
		}

		if err := f.store.InsertMeasurements(ctx, []domain.HourlyMeasurement{measurement}); err != nil {
			return fmt.Errorf("store measurement: %w", err)
		}
		if err := f.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit measurement message: %w", err)
		}
		f.metrics.FeedMessages.WithLabelValues("stored").Inc()
	}
}

// Close releases the consumer's group membership.
func (f *Feed) Close() error {
	return f.reader.Close()
}

// decodeMeasurement unmarshals one feed message into a typed measurement.
// A record missing every parameter is accepted (inert but not erroneous); a
// record without a timestamp is not, since time-range reads could never
// return it.
func decodeMeasurement(value []byte) (domain.HourlyMeasurement, error) {
	var m domain.HourlyMeasurement
	if err := json.Unmarshal(value, &m); err != nil {
		return domain.HourlyMeasurement{}, fmt.Errorf("decode measurement: %w", err)
	}
	if m.Timestamp.IsZero() {
		return domain.HourlyMeasurement{}, errors.New("measurement has no timestamp")
	}
	return m, nil
}
