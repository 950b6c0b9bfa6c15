package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() Summary {
	return Summary{
		ParamTemperature: {Min: 18.2, Max: 24.7, Avg: 21.35},
		ParamHumidity:    {Min: 40, Max: 80, Avg: 61.5},
		ParamPressure:    {Min: 1001.4, Max: 1013, Avg: 1008.25},
		ParamWindSpeed:   {Min: 2, Max: 17.8, Avg: 9.1},
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("summary block renders all parameters with two decimals", func(t *testing.T) {
		p := BuildPrompt("2025-06-01", testLocation, testSummary(), nil)

		assert.Contains(t, p.User, "weather data from berlin on 2025-06-01")
		assert.Contains(t, p.User, "Temperature: Min 18.20°C, Max 24.70°C, Avg 21.35°C")
		assert.Contains(t, p.User, "Humidity: Min 40.00%, Max 80.00%, Avg 61.50%")
		assert.Contains(t, p.User, "Pressure: Min 1001.40 hPa, Max 1013.00 hPa, Avg 1008.25 hPa")
		assert.Contains(t, p.User, "Wind Speed: Min 2.00 mph, Max 17.80 mph, Avg 9.10 mph")
	})

	t.Run("format instructions always present", func(t *testing.T) {
		p := BuildPrompt("2025-06-01", testLocation, testSummary(), nil)

		assert.Contains(t, p.User, "CRITICAL: You must return the response in this EXACT JSON format:")
		assert.Contains(t, p.User, `"prediction_12h"`)
		assert.Contains(t, p.User, `"prediction_24h"`)
		assert.Contains(t, p.User, `"confidence": <number between 0.0 and 1.0>`)
	})

	t.Run("trend block", func(t *testing.T) {
		trends := map[string]TrendEntry{
			ParamTemperature: {Change: 2, RatePerHour: 0.5, Direction: TrendRising},
			ParamPressure:    {Change: -3.456, RatePerHour: -1.152, Direction: TrendFalling},
		}

		p := BuildPrompt("2025-06-01", testLocation, testSummary(), trends)

		assert.Contains(t, p.User, "Observed trends (over last 12 hours):")
		assert.Contains(t, p.User, "Temperature: rising, Change: 2.00, Rate: 0.50/hour")
		assert.Contains(t, p.User, "Pressure: falling, Change: -3.46, Rate: -1.15/hour")
	})

	t.Run("no trend block for empty trends", func(t *testing.T) {
		p := BuildPrompt("2025-06-01", testLocation, testSummary(), map[string]TrendEntry{})

		assert.NotContains(t, p.User, "Observed trends")
	})

	t.Run("trend block follows canonical parameter order", func(t *testing.T) {
		trends := map[string]TrendEntry{
			ParamWindSpeed:   {Change: 1, RatePerHour: 0.5, Direction: TrendRising},
			ParamTemperature: {Change: 1, RatePerHour: 0.5, Direction: TrendRising},
		}

		p := BuildPrompt("2025-06-01", testLocation, testSummary(), trends)

		tempIdx := strings.Index(p.User, "\nTemperature: rising")
		windIdx := strings.Index(p.User, "\nWind_speed: rising")
		require.NotEqual(t, -1, tempIdx)
		require.NotEqual(t, -1, windIdx)
		assert.Less(t, tempIdx, windIdx)
	})

	t.Run("deterministic", func(t *testing.T) {
		trends := map[string]TrendEntry{
			ParamTemperature: {Change: 2, RatePerHour: 1, Direction: TrendRising},
			ParamHumidity:    {Change: -4, RatePerHour: -2, Direction: TrendFalling},
		}

		first := BuildPrompt("2025-06-01", testLocation, testSummary(), trends)
		second := BuildPrompt("2025-06-01", testLocation, testSummary(), trends)

		assert.Equal(t, first, second)
	})

	t.Run("system prompt frames the reporter", func(t *testing.T) {
		p := BuildPrompt("2025-06-01", testLocation, testSummary(), nil)

		assert.Contains(t, p.System, "weather reporting robot")
		assert.Contains(t, p.System, "system compatibility")
	})
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"temperature", "Temperature"},
		{"wind_speed", "Wind_speed"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, capitalize(tt.in))
	}
}
