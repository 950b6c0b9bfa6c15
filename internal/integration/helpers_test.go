//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/couchcryptid/weather-report-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startMongo runs a MongoDB container and returns its connection URI.
func startMongo(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tcmongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "start mongodb container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate mongodb container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "mongodb connection string")
	return uri
}

// startKafka runs a Kafka container and returns a broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("weather-report-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// hourlyWindow builds an ascending measurement window ending at end, with
// temperature climbing one degree per hour.
func hourlyWindow(end time.Time, hours int, location string) []domain.HourlyMeasurement {
	measurements := make([]domain.HourlyMeasurement, 0, hours)
	for i := 0; i < hours; i++ {
		avg := 15.0 + float64(i)
		lo, hi := avg-2, avg+2
		measurements = append(measurements, domain.HourlyMeasurement{
			Timestamp: end.Add(time.Duration(i-hours) * time.Hour),
			Tags:      domain.MeasurementTags{Location: location},
			Fields: map[string]domain.FieldStats{
				domain.ParamTemperature: {Min: &lo, Max: &hi, Avg: &avg},
			},
		})
	}
	return measurements
}
