package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// briefing service.
type Metrics struct {
	BriefingsBuilt        prometheus.Counter
	BriefingBuildDuration prometheus.Histogram
	ServiceRunning        prometheus.Gauge

	// Per-source fetch metrics.
	SourceFetches       *prometheus.CounterVec   // labels: source, outcome={success,error}
	SourceFetchDuration *prometheus.HistogramVec // labels: source

	// Freshness and completeness of the latest briefing.
	DataGaps         prometheus.Gauge
	LastBriefingTime prometheus.Gauge
}

// NewMetrics creates and registers all briefing metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		BriefingsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wx_briefing",
			Name:      "briefings_built_total",
			Help:      "Total briefings assembled.",
		}),
		BriefingBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wx_briefing",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete briefing assembly, fetch through synthesis.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		ServiceRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wx_briefing",
			Name:      "service_running",
			Help:      "1 when the briefing loop is active, 0 when shut down.",
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_briefing",
			Name:      "source_fetches_total",
			Help:      "Upstream source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wx_briefing",
			Name:      "source_fetch_duration_seconds",
			Help:      "Upstream source fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		DataGaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wx_briefing",
			Name:      "data_gaps",
			Help:      "Number of source gaps in the latest briefing.",
		}),
		LastBriefingTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wx_briefing",
			Name:      "last_briefing_timestamp_seconds",
			Help:      "Unix time the latest briefing was generated.",
		}),
	}

	prometheus.MustRegister(
		m.BriefingsBuilt,
		m.BriefingBuildDuration,
		m.ServiceRunning,
		m.SourceFetches,
		m.SourceFetchDuration,
		m.DataGaps,
		m.LastBriefingTime,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BriefingsBuilt:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wx_briefing", Name: "briefings_built_total"}),
		BriefingBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wx_briefing", Name: "build_duration_seconds"}),
		ServiceRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wx_briefing", Name: "service_running"}),
		SourceFetches:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wx_briefing", Name: "source_fetches_total"}, []string{"source", "outcome"}),
		SourceFetchDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "wx_briefing", Name: "source_fetch_duration_seconds"}, []string{"source"}),
		DataGaps:              prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wx_briefing", Name: "data_gaps"}),
		LastBriefingTime:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wx_briefing", Name: "last_briefing_timestamp_seconds"}),
	}
}
