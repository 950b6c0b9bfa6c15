package domain

import "time"

// Trend directions. Derived strictly from the sign of the change, so a
// window that ends where it started is "stable" even if it oscillated.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// TrendEntry describes how one parameter moved across the analysis window.
// RatePerHour divides the change by the number of hourly samples, not by
// elapsed clock time; see the package doc.
type TrendEntry struct {
	Change      float64 `bson:"change" json:"change"`
	RatePerHour float64 `bson:"rate_per_hour" json:"rate_per_hour"`
	Direction   string  `bson:"direction" json:"direction"`
}

// TrendSnapshot is one document from the "trends" collection: the trend set
// most recently computed by the upstream aggregation pipeline for a
// location. This service only reads it.
type TrendSnapshot struct {
	Location  string                `bson:"location" json:"location"`
	Timestamp time.Time             `bson:"timestamp" json:"timestamp"`
	Trends    map[string]TrendEntry `bson:"trends" json:"trends"`
}

// AnalyzeTrends compares first and last hourly averages for each parameter.
// Measurements must already be in ascending time order; callers fetch them
// sorted and no re-sort happens here.
//
// Fewer than two measurements total, or fewer than two avg samples for a
// given parameter, yields no entry for that parameter. An empty result is
// informational, not an error: reports render without a trend block.
func AnalyzeTrends(measurements []HourlyMeasurement) map[string]TrendEntry {
	if len(measurements) < 2 {
		return map[string]TrendEntry{}
	}

	trends := make(map[string]TrendEntry)
	for _, param := range Parameters {
		var values []float64
		for _, m := range measurements {
			if stats, ok := m.Fields[param]; ok && stats.Avg != nil {
				values = append(values, *stats.Avg)
			}
		}
		if len(values) < 2 {
			continue
		}

		change := values[len(values)-1] - values[0]
		trends[param] = TrendEntry{
			Change:      change,
			RatePerHour: change / float64(len(values)),
			Direction:   trendDirection(change),
		}
	}

	return trends
}

func trendDirection(change float64) string {
	switch {
	case change > 0:
		return TrendRising
	case change < 0:
		return TrendFalling
	default:
		return TrendStable
	}
}
