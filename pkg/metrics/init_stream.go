package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStreamMetrics() {
	r.FramesPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "keygraph_frames_published_total",
			Help: "Total number of layout frames published",
		},
		[]string{"transport"},
	)

	r.FramesDroppedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "keygraph_frames_dropped_total",
			Help: "Frames dropped because a subscriber was full",
		},
	)

	r.FrameBytesRaw = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "keygraph_frame_bytes_raw_total",
			Help: "Frame payload bytes before compression",
		},
	)

	r.FrameBytesCompressed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "keygraph_frame_bytes_compressed_total",
			Help: "Frame payload bytes after compression",
		},
	)

	r.StreamSubscribers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "keygraph_stream_subscribers",
			Help: "Current number of frame subscribers",
		},
	)
}
