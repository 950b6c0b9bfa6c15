package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLocation = "berlin"

// fp builds the optional float fields used by measurement fixtures.
func fp(v float64) *float64 {
	return &v
}

func hourAt(h int) time.Time {
	return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
}

func measurementAt(h int, fields map[string]FieldStats) HourlyMeasurement {
	return HourlyMeasurement{
		Timestamp: hourAt(h),
		Tags:      MeasurementTags{Location: testLocation},
		Fields:    fields,
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Summarize(nil))
		assert.Nil(t, Summarize([]HourlyMeasurement{}))
	})

	t.Run("single measurement", func(t *testing.T) {
		m := measurementAt(0, map[string]FieldStats{
			ParamTemperature: {Min: fp(18.2), Max: fp(24.7), Avg: fp(21.3)},
		})

		summary := Summarize([]HourlyMeasurement{m})

		require.NotNil(t, summary)
		assert.Equal(t, Stats{Min: 18.2, Max: 24.7, Avg: 21.3}, summary[ParamTemperature])
	})

	t.Run("folds across measurements", func(t *testing.T) {
		ms := []HourlyMeasurement{
			measurementAt(0, map[string]FieldStats{
				ParamTemperature: {Min: fp(10), Max: fp(14), Avg: fp(12)},
			}),
			measurementAt(1, map[string]FieldStats{
				ParamTemperature: {Min: fp(8), Max: fp(20), Avg: fp(16)},
			}),
			measurementAt(2, map[string]FieldStats{
				ParamTemperature: {Min: fp(12), Max: fp(18), Avg: fp(14)},
			}),
		}

		summary := Summarize(ms)

		assert.Equal(t, Stats{Min: 8, Max: 20, Avg: 14}, summary[ParamTemperature])
	})

	t.Run("all parameters always present", func(t *testing.T) {
		m := measurementAt(0, map[string]FieldStats{
			ParamTemperature: {Avg: fp(20)},
		})

		summary := Summarize([]HourlyMeasurement{m})

		for _, param := range Parameters {
			_, ok := summary[param]
			assert.True(t, ok, param)
		}
		// Parameters absent from every measurement degrade to all zeros.
		assert.Equal(t, Stats{}, summary[ParamHumidity])
		assert.Equal(t, Stats{}, summary[ParamPressure])
		assert.Equal(t, Stats{}, summary[ParamWindSpeed])
	})

	t.Run("missing min and max collapse to avg", func(t *testing.T) {
		ms := []HourlyMeasurement{
			measurementAt(0, map[string]FieldStats{ParamHumidity: {Avg: fp(60)}}),
			measurementAt(1, map[string]FieldStats{ParamHumidity: {Avg: fp(70)}}),
		}

		summary := Summarize(ms)

		assert.Equal(t, Stats{Min: 65, Max: 65, Avg: 65}, summary[ParamHumidity])
	})

	t.Run("min and max collapse independently", func(t *testing.T) {
		// Hours carry a max but never a min: max stays real, min falls back
		// to the (zero) average.
		ms := []HourlyMeasurement{
			measurementAt(0, map[string]FieldStats{ParamWindSpeed: {Max: fp(31)}}),
			measurementAt(1, map[string]FieldStats{ParamWindSpeed: {Max: fp(28)}}),
		}

		summary := Summarize(ms)

		assert.Equal(t, Stats{Min: 0, Max: 31, Avg: 0}, summary[ParamWindSpeed])
	})

	t.Run("avg counts only hours that carry an avg", func(t *testing.T) {
		ms := []HourlyMeasurement{
			measurementAt(0, map[string]FieldStats{ParamPressure: {Min: fp(1001), Avg: fp(1010)}}),
			measurementAt(1, map[string]FieldStats{ParamPressure: {Min: fp(999)}}),
			measurementAt(2, map[string]FieldStats{ParamPressure: {Avg: fp(1020)}}),
		}

		summary := Summarize(ms)

		assert.Equal(t, Stats{Min: 999, Max: 1015, Avg: 1015}, summary[ParamPressure])
	})

	t.Run("order insensitive", func(t *testing.T) {
		a := measurementAt(0, map[string]FieldStats{
			ParamTemperature: {Min: fp(5), Max: fp(9), Avg: fp(7)},
		})
		b := measurementAt(1, map[string]FieldStats{
			ParamTemperature: {Min: fp(3), Max: fp(12), Avg: fp(8)},
		})

		assert.Equal(t, Summarize([]HourlyMeasurement{a, b}), Summarize([]HourlyMeasurement{b, a}))
	})

	t.Run("measurement with no fields is inert", func(t *testing.T) {
		ms := []HourlyMeasurement{
			measurementAt(0, map[string]FieldStats{ParamTemperature: {Avg: fp(15)}}),
			measurementAt(1, nil),
		}

		summary := Summarize(ms)

		assert.Equal(t, Stats{Min: 15, Max: 15, Avg: 15}, summary[ParamTemperature])
	})
}

func TestMeasurementLocation(t *testing.T) {
	t.Run("tagged", func(t *testing.T) {
		m := measurementAt(0, nil)
		assert.Equal(t, testLocation, m.Location())
	})

	t.Run("missing tag falls back to unknown", func(t *testing.T) {
		m := HourlyMeasurement{Timestamp: hourAt(0)}
		assert.Equal(t, "unknown", m.Location())
	})
}
