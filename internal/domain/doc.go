// Package domain models hourly weather measurements and the LLM-generated
// weather reports derived from them.
//
// # Data Source
//
// Hourly measurements are written to the "hourly_measurements" collection by
// the upstream aggregation pipeline, one document per hour per location. Each
// document carries a UTC timestamp (stored as "timestamp_ms"), a location tag,
// and per-parameter statistics under "fields":
//
//	temperature (°C), humidity (%), pressure (hPa), wind_speed (mph)
//
// Any of the four parameters may be absent for a given hour, and a present
// parameter may carry any subset of min/max/avg. A document with no usable
// fields is inert but not an error.
//
// # Summary Conventions
//
// [Summarize] folds a window of measurements into per-parameter min/max/avg.
// The average is the mean of the hourly "avg" values, not a re-weighted mean
// of the raw samples. Parameters with no samples in the window degrade to
// min = max = avg = 0 rather than being omitted, because the report prompt
// renders all four parameters unconditionally.
//
// # Trend Conventions
//
// [AnalyzeTrends] compares the first and last hourly averages of each
// parameter over the window. The per-hour rate divides the total change by
// the number of samples, not by elapsed clock hours; gaps in the hourly
// series therefore dilute the rate. Downstream consumers were built against
// this behavior, so it is kept.
//
// # Report Compatibility
//
// Reports are stored in the "weather_predictions" collection with
// "prediction_12h"/"prediction_24h" field names. The service summarizes
// observed data rather than forecasting, but downstream consumers expect the
// prediction vocabulary, so the stored shape keeps it. See [ReportDocument].
package domain
