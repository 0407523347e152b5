package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	RecordsLoaded  prometheus.Counter
	RecordsDropped *prometheus.CounterVec // labels: reason={missing_value,duplicate,invalid_date}
	RecordsCleaned prometheus.Gauge
	DatasetReady   prometheus.Gauge

	// Presentation metrics.
	Renders         *prometheus.CounterVec // labels: variable
	RenderDuration  prometheus.Histogram
	Exports         prometheus.Counter
	EmptySelections prometheus.Counter

	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RecordsDropped,
		m.RecordsCleaned,
		m.DatasetReady,
		m.Renders,
		m.RenderDuration,
		m.Exports,
		m.EmptySelections,
		m.RecordsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "records_loaded_total",
			Help:      "Total rows read from the source CSV.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "records_dropped_total",
			Help:      "Rows removed during cleaning, by reason.",
		}, []string{"reason"}),
		RecordsCleaned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_dashboard",
			Name:      "records_cleaned",
			Help:      "Rows in the cleaned table.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_dashboard",
			Name:      "dataset_ready",
			Help:      "1 once the cleaned table is available, 0 otherwise.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "renders_total",
			Help:      "Chart renders by selected variable.",
		}, []string{"variable"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Duration of a filter-and-render pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "exports_total",
			Help:      "CSV exports served.",
		}),
		EmptySelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "empty_selections_total",
			Help:      "Renders whose year range matched no records.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "records_published_total",
			Help:      "Cleaned records written to the Kafka topic.",
		}),
	}
}
