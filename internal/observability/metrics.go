package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flowline_styler"

// Metrics holds the Prometheus counters, histograms, and gauges for tile
// rendering and style change fan-out.
type Metrics struct {
	// Tile metrics.
	TilesRendered  *prometheus.CounterVec   // labels: layer, outcome={success,error}
	RenderDuration *prometheus.HistogramVec // labels: layer
	TileCache      *prometheus.CounterVec   // labels: layer, result={hit,miss}

	// Style metrics.
	StyleChanges    *prometheus.CounterVec // labels: layer
	StyleRevision   prometheus.Gauge
	EventsDropped   prometheus.Counter
	EventStreams    prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Change fan-out metrics.
	ChangesPublished        prometheus.Counter
	PublishErrors           prometheus.Counter
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TilesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_rendered_total",
			Help:      "Tiles recolored by layer and outcome.",
		}, []string{"layer", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of one full-tile classifier pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"layer"}),
		TileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_cache_total",
			Help:      "Rendered tile cache lookups by layer and result.",
		}, []string{"layer", "result"}),
		StyleChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "style_changes_total",
			Help:      "Accepted style mutations by affected layer.",
		}, []string{"layer"}),
		StyleRevision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "style_revision",
			Help:      "Current style revision.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_dropped_total",
			Help:      "Change events dropped because a subscriber was full.",
		}),
		EventStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_streams",
			Help:      "Open server-sent event streams.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the change pipeline is active, 0 when shut down.",
		}),
		ChangesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_published_total",
			Help:      "Coalesced change events written to the sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to write a change batch to the sink.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of change events per extracted batch.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-coalesce-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TilesRendered,
		m.RenderDuration,
		m.TileCache,
		m.StyleChanges,
		m.StyleRevision,
		m.EventsDropped,
		m.EventStreams,
		m.PipelineRunning,
		m.ChangesPublished,
		m.PublishErrors,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}
