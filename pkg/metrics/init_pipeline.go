package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.RebuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "keygraph_rebuilds_total",
			Help: "Total number of pipeline rebuilds",
		},
		[]string{"status"},
	)

	r.RebuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keygraph_rebuild_duration_seconds",
			Help:    "Full pipeline rebuild latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RebuildStageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keygraph_rebuild_stage_duration_seconds",
			Help:    "Per-stage rebuild latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	r.DocumentsProcessed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "keygraph_documents_processed_total",
			Help: "Total number of documents fed through the extractor",
		},
	)

	r.KeywordsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_keywords_total",
			Help: "Distinct keywords in the latest extraction",
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_graph_nodes_total",
			Help: "Nodes in the latest built graph",
		},
	)

	r.GraphLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_graph_links_total",
			Help: "Links in the latest built graph",
		},
	)

	r.CommunitiesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_communities_total",
			Help: "Communities detected in the latest graph",
		},
	)
}
