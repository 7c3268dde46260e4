package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutTicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "keygraph_layout_ticks_total",
			Help: "Total number of simulation ticks",
		},
		[]string{"variant"},
	)

	r.LayoutTickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keygraph_layout_tick_duration_seconds",
			Help:    "Single tick latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.LayoutAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_layout_alpha",
			Help: "Current simulation energy",
		},
	)

	r.LayoutSettled = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_layout_settled",
			Help: "1 when the simulation has settled, 0 otherwise",
		},
	)

	r.LayoutPinnedNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_layout_pinned_nodes",
			Help: "Nodes currently pinned",
		},
	)
}
