package domain

import "time"

// Weather parameters carried by hourly measurements. Order matters: summary
// and prompt rendering iterate Parameters so output is deterministic.
const (
	ParamTemperature = "temperature"
	ParamHumidity    = "humidity"
	ParamPressure    = "pressure"
	ParamWindSpeed   = "wind_speed"
)

// Parameters lists the known weather parameters in canonical render order.
var Parameters = []string{ParamTemperature, ParamHumidity, ParamPressure, ParamWindSpeed}

// ParameterUnits maps each parameter to the unit used in prompts and logs.
var ParameterUnits = map[string]string{
	ParamTemperature: "°C",
	ParamHumidity:    "%",
	ParamPressure:    "hPa",
	ParamWindSpeed:   "mph",
}

// FieldStats holds the per-hour statistics for one parameter. Any subset of
// min/max/avg may be present; pointers distinguish absent from zero.
type FieldStats struct {
	Min *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Avg *float64 `bson:"avg,omitempty" json:"avg,omitempty"`
}

// MeasurementTags carries the indexed tags attached to a measurement by the
// upstream aggregation pipeline.
type MeasurementTags struct {
	Location string `bson:"location" json:"location"`
}

// HourlyMeasurement is one document from the "hourly_measurements"
// collection: a single hour of aggregated readings for one location. The
// "timestamp_ms" field name is the upstream pipeline's; it holds a UTC
// instant, not a millisecond count.
type HourlyMeasurement struct {
	Timestamp time.Time             `bson:"timestamp_ms" json:"timestamp_ms"`
	Tags      MeasurementTags       `bson:"tags" json:"tags"`
	Fields    map[string]FieldStats `bson:"fields" json:"fields"`
}

// Location returns the measurement's location tag, or "unknown" when the tag
// is missing. Reports inherit their location from the first measurement in
// the analysis window.
func (m HourlyMeasurement) Location() string {
	if m.Tags.Location == "" {
		return "unknown"
	}
	return m.Tags.Location
}

// DailySummary is one document from the "daily_reports" collection: a
// per-day rollup written by the upstream aggregation pipeline. This service
// only reads it.
type DailySummary struct {
	Date        string           `bson:"date" json:"date"`
	Location    string           `bson:"location" json:"location"`
	Summary     map[string]Stats `bson:"summary" json:"summary"`
	SampleCount int              `bson:"sample_count" json:"sample_count"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
}
