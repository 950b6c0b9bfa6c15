package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for report generation.
type Metrics struct {
	ReportsGenerated   prometheus.Counter
	ReportsReused      prometheus.Counter
	GenerationErrors   *prometheus.CounterVec // labels: kind={no_data,generation_unavailable,malformed_response,persistence_failure}
	GenerationInFlight prometheus.Gauge

	// Per-run shape and timing.
	MeasurementsAnalyzed prometheus.Histogram
	GenerationDuration   prometheus.Histogram

	// Generation API call metrics.
	LLMRequests *prometheus.CounterVec // labels: outcome={success,error}
	LLMDuration prometheus.Histogram

	// Optional Kafka measurement feed.
	FeedMessages *prometheus.CounterVec // labels: result={stored,skipped}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "reports_generated_total",
			Help:      "Total new reports generated and stored.",
		}),
		ReportsReused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "reports_reused_total",
			Help:      "Total requests answered by a stored report inside the freshness window.",
		}),
		GenerationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "generation_errors_total",
			Help:      "Failed generation runs by failure kind.",
		}, []string{"kind"}),
		GenerationInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_report",
			Name:      "generation_in_flight",
			Help:      "1 while a generation run is executing, 0 otherwise.",
		}),
		MeasurementsAnalyzed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "measurements_analyzed",
			Help:      "Number of hourly measurements feeding one report.",
			Buckets:   []float64{1, 2, 4, 6, 8, 12, 18, 24, 48},
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "generation_duration_seconds",
			Help:      "Duration of a complete generation run including persistence.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "llm_requests_total",
			Help:      "Generation API requests by outcome.",
		}, []string{"outcome"}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "llm_request_duration_seconds",
			Help:      "Generation API request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FeedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "feed_messages_total",
			Help:      "Measurement feed messages by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportsReused,
		m.GenerationErrors,
		m.GenerationInFlight,
		m.MeasurementsAnalyzed,
		m.GenerationDuration,
		m.LLMRequests,
		m.LLMDuration,
		m.FeedMessages,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsGenerated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_report", Name: "reports_generated_total"}),
		ReportsReused:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_report", Name: "reports_reused_total"}),
		GenerationErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_report", Name: "generation_errors_total"}, []string{"kind"}),
		GenerationInFlight:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_report", Name: "generation_in_flight"}),
		MeasurementsAnalyzed: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_report", Name: "measurements_analyzed"}),
		GenerationDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_report", Name: "generation_duration_seconds"}),
		LLMRequests:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_report", Name: "llm_requests_total"}, []string{"outcome"}),
		LLMDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_report", Name: "llm_request_duration_seconds"}),
		FeedMessages:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_report", Name: "feed_messages_total"}, []string{"result"}),
	}
}
