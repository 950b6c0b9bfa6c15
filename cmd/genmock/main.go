// Command genmock generates deterministic mock hourly measurements for
// development and integration tests. It can write them as a JSON fixture,
// seed them straight into the configured store, or both.
//
// Usage:
//
//	go run ./cmd/genmock -hours 12 -location seattle -out data/mock/hourly_measurements.json
//	go run ./cmd/genmock -hours 12 -location seattle -seed-store
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	mongoadapter "github.com/couchcryptid/weather-report-service/internal/adapter/mongo"
	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	hours := flag.Int("hours", 12, "number of hourly measurements to generate")
	location := flag.String("location", "seattle", "location tag for the measurements")
	start := flag.String("start", "", "timestamp of the first measurement (RFC3339), defaults to now-hours")
	out := flag.String("out", "", "output path for the JSON fixture")
	seedStore := flag.Bool("seed-store", false, "insert the measurements into the configured store")
	flag.Parse()

	if *out == "" && !*seedStore {
		flag.Usage()
		return fmt.Errorf("nothing to do: pass -out and/or -seed-store")
	}
	if *hours <= 0 {
		return fmt.Errorf("-hours must be positive")
	}

	first := time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(*hours) * time.Hour)
	if *start != "" {
		parsed, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("parse -start: %w", err)
		}
		first = parsed.UTC()
	}

	measurements := mockMeasurements(first, *hours, *location)
	log.Printf("generated %d measurements for %s starting %s", len(measurements), *location, first.Format(time.RFC3339))

	if *out != "" {
		if err := writeFixture(*out, measurements); err != nil {
			return fmt.Errorf("writing fixture: %w", err)
		}
		log.Printf("wrote fixture: %s", *out)
	}

	if *seedStore {
		if err := seed(measurements); err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
		log.Printf("seeded %d measurements into the store", len(measurements))
	}

	return nil
}

// mockMeasurements builds one measurement per hour with a daily temperature
// swing, anti-correlated humidity, and a slow pressure drift. Purely a
// function of the inputs, so fixtures are reproducible.
func mockMeasurements(first time.Time, hours int, location string) []domain.HourlyMeasurement {
	measurements := make([]domain.HourlyMeasurement, 0, hours)
	for i := 0; i < hours; i++ {
		ts := first.Add(time.Duration(i) * time.Hour)

		// Peak around 15:00, trough around 03:00.
		phase := 2 * math.Pi * float64(ts.Hour()-3) / 24
		temp := 15 + 6*math.Sin(phase)
		humidity := 70 - 15*math.Sin(phase)
		pressure := 1013 + 2*math.Sin(2*math.Pi*float64(i)/48)
		wind := 8 + 3*math.Sin(2*math.Pi*float64(i)/6)

		measurements = append(measurements, domain.HourlyMeasurement{
			Timestamp: ts,
			Tags:      domain.MeasurementTags{Location: location},
			Fields: map[string]domain.FieldStats{
				domain.ParamTemperature: spread(temp, 1.5),
				domain.ParamHumidity:    spread(humidity, 4),
				domain.ParamPressure:    spread(pressure, 0.5),
				domain.ParamWindSpeed:   spread(wind, 2),
			},
		})
	}
	return measurements
}

// spread builds hourly stats with min/max straddling the average.
func spread(avg, width float64) domain.FieldStats {
	lo, hi := avg-width, avg+width
	return domain.FieldStats{Min: &lo, Max: &hi, Avg: &avg}
}

func writeFixture(path string, measurements []domain.HourlyMeasurement) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(measurements, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func seed(measurements []domain.HourlyMeasurement) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store domain.MeasurementStore
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return fmt.Errorf("seeding the in-memory store has no effect; use STORE_BACKEND=mongo")
	default:
		mongoStore, err := mongoadapter.NewStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = mongoStore.Close(context.Background()) }()
		store = mongoStore
	}

	return store.InsertMeasurements(ctx, measurements)
}
