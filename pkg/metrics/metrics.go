package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordRebuild records one full pipeline rebuild and refreshes the
// shape gauges
func (r *Registry) RecordRebuild(status string, duration time.Duration, docs, keywords, nodes, links, communities int) {
	r.RebuildsTotal.WithLabelValues(status).Inc()
	r.RebuildDuration.Observe(duration.Seconds())
	r.DocumentsProcessed.Add(float64(docs))
	r.KeywordsTotal.Set(float64(keywords))
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphLinksTotal.Set(float64(links))
	r.CommunitiesTotal.Set(float64(communities))
}

// RecordRebuildStage records one stage (extract, build, detect, layout)
// of a rebuild
func (r *Registry) RecordRebuildStage(stage string, duration time.Duration) {
	r.RebuildStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordTick records a simulation step
func (r *Registry) RecordTick(variant string, duration time.Duration) {
	r.LayoutTicksTotal.WithLabelValues(variant).Inc()
	r.LayoutTickDuration.Observe(duration.Seconds())
}

// SetLayoutState refreshes the simulation gauges
func (r *Registry) SetLayoutState(alpha float64, settled bool, pinned int) {
	r.LayoutAlpha.Set(alpha)
	if settled {
		r.LayoutSettled.Set(1)
	} else {
		r.LayoutSettled.Set(0)
	}
	r.LayoutPinnedNodes.Set(float64(pinned))
}

// RecordCorpusLoad records a corpus load attempt
func (r *Registry) RecordCorpusLoad(source, status string, duration time.Duration, docs int) {
	r.CorpusLoadsTotal.WithLabelValues(source, status).Inc()
	r.CorpusLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if status == "success" {
		r.CorpusDocumentsLast.Set(float64(docs))
	}
}

// RecordFrame records a published frame with its compression sizes
func (r *Registry) RecordFrame(transport string, rawBytes, compressedBytes int) {
	r.FramesPublishedTotal.WithLabelValues(transport).Inc()
	r.FrameBytesRaw.Add(float64(rawBytes))
	r.FrameBytesCompressed.Add(float64(compressedBytes))
}

// UpdateSystemMetrics refreshes the process gauges
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(ms.Alloc))
	r.MemorySysBytes.Set(float64(ms.Sys))
}
