package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Pipeline Metrics
	RebuildsTotal        *prometheus.CounterVec
	RebuildDuration      prometheus.Histogram
	RebuildStageDuration *prometheus.HistogramVec
	DocumentsProcessed   prometheus.Counter
	KeywordsTotal        prometheus.Gauge
	GraphNodesTotal      prometheus.Gauge
	GraphLinksTotal      prometheus.Gauge
	CommunitiesTotal     prometheus.Gauge

	// Layout Metrics
	LayoutTicksTotal   *prometheus.CounterVec
	LayoutTickDuration prometheus.Histogram
	LayoutAlpha        prometheus.Gauge
	LayoutSettled      prometheus.Gauge
	LayoutPinnedNodes  prometheus.Gauge

	// Corpus Metrics
	CorpusLoadsTotal    *prometheus.CounterVec
	CorpusLoadDuration  *prometheus.HistogramVec
	CorpusDocumentsLast prometheus.Gauge

	// Stream Metrics
	FramesPublishedTotal *prometheus.CounterVec
	FramesDroppedTotal   prometheus.Counter
	FrameBytesRaw        prometheus.Counter
	FrameBytesCompressed prometheus.Counter
	StreamSubscribers    prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initHTTPMetrics()
	r.initPipelineMetrics()
	r.initLayoutMetrics()
	r.initCorpusMetrics()
	r.initStreamMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
