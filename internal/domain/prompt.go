package domain

import (
	"fmt"
	"strings"
)

// Prompt is the two-message instruction set sent to the generation API.
type Prompt struct {
	System string
	User   string
}

// reportSystemPrompt frames the model as a weather reporter working from
// observed data. The prediction framing at the end is deliberate; downstream
// consumers expect prediction-shaped output.
const reportSystemPrompt = "You are a fun weather reporting robot that analyzes observed weather data and provides structured data in the exact format requested. Focus on observed data patterns and trends rather than future predictions, but format as if they were predictions for system compatibility."

// reportFormatInstructions pins the response shape. Kept byte-identical to
// the prompt the downstream parsers were tuned against; edit with care.
const reportFormatInstructions = `

CRITICAL: You must return the response in this EXACT JSON format:
{
  "prediction_12h": {
    "temperature": {
      "min": <number>,
      "max": <number>
    },
    "humidity": {
      "min": <number>,
      "max": <number>
    },
    "pressure": {
      "min": <number>,
      "max": <number>
    },
    "wind_speed": {
      "min": <number>,
      "max": <number>
    }
  },
  "prediction_24h": {
    "temperature": {
      "min": <number>,
      "max": <number>
    },
    "humidity": {
      "min": <number>,
      "max": <number>
    },
    "pressure": {
      "min": <number>,
      "max": <number>
    },
    "wind_speed": {
      "min": <number>,
      "max": <number>
    }
  },
  "reasoning": "<string describing your analysis of the observed weather patterns and trends>",
  "confidence": <number between 0.0 and 1.0>
}

For prediction_12h and prediction_24h, use the observed data ranges but you may extrapolate slightly based on trends. Focus on what the data shows rather than making wild predictions. The reasoning should explain the observed patterns and trends in the data.`

// BuildPrompt renders the generation prompt for one report. Output is
// deterministic for a given input: the summary block always carries all four
// parameters and the trend block iterates Parameters in canonical order.
// An empty trend map omits the trend block entirely.
func BuildPrompt(date, location string, summary Summary, trends map[string]TrendEntry) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, `
Based on the following weather data from %s on %s, please provide a weather analysis in the exact JSON format specified below.

Provide a light hearted analysis of the weather data in the style of a robot weather reporter. The report should be informative and based on the data, but digestable for humans to read.

Current weather summary:
`, location, date)

	temp := summary[ParamTemperature]
	fmt.Fprintf(&b, "Temperature: Min %.2f°C, Max %.2f°C, Avg %.2f°C\n", temp.Min, temp.Max, temp.Avg)
	hum := summary[ParamHumidity]
	fmt.Fprintf(&b, "Humidity: Min %.2f%%, Max %.2f%%, Avg %.2f%%\n", hum.Min, hum.Max, hum.Avg)
	pres := summary[ParamPressure]
	fmt.Fprintf(&b, "Pressure: Min %.2f hPa, Max %.2f hPa, Avg %.2f hPa\n", pres.Min, pres.Max, pres.Avg)
	wind := summary[ParamWindSpeed]
	fmt.Fprintf(&b, "Wind Speed: Min %.2f mph, Max %.2f mph, Avg %.2f mph\n", wind.Min, wind.Max, wind.Avg)

	if len(trends) > 0 {
		b.WriteString("\nObserved trends (over last 12 hours):")
		for _, param := range Parameters {
			entry, ok := trends[param]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n%s: %s, Change: %.2f, Rate: %.2f/hour",
				capitalize(param), entry.Direction, entry.Change, entry.RatePerHour)
		}
	}

	b.WriteString(reportFormatInstructions)

	return Prompt{System: reportSystemPrompt, User: b.String()}
}

// capitalize upper-cases the first byte only: "wind_speed" -> "Wind_speed".
// Matches the label style the prompt has always used.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
