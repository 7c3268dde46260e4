package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCorpusMetrics() {
	r.CorpusLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "keygraph_corpus_loads_total",
			Help: "Total number of corpus loads",
		},
		[]string{"source", "status"},
	)

	r.CorpusLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keygraph_corpus_load_duration_seconds",
			Help:    "Corpus load latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	r.CorpusDocumentsLast = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_corpus_documents_last",
			Help: "Documents returned by the most recent corpus load",
		},
	)
}
