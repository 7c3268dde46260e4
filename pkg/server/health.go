package server

import (
	"context"
	"runtime"
	"time"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/health"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/stream"
)

// corpusPinger is implemented by sources with a connectivity probe
type corpusPinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealthChecks wires the domain checks for a serving process.
// The full check covers everything, readiness gates on the pipeline
// and corpus, liveness only watches process memory.
func RegisterHealthChecks(hc *health.HealthChecker, session *pipeline.Session, source corpus.Source, bus *stream.Bus) {
	pipelineCheck := health.PipelineCheck(func() (bool, int, int, int) {
		result, err := session.Result()
		if err != nil {
			return false, 0, 0, 0
		}
		return true, result.Documents, len(result.Graph.Nodes), len(result.Graph.Links)
	})
	hc.RegisterCheck("pipeline", pipelineCheck)
	hc.RegisterReadinessCheck("pipeline", pipelineCheck)

	hc.RegisterCheck("layout", health.LayoutCheck(func() (string, float64, int) {
		h := session.Handle()
		if h == nil {
			return "", 0, 0
		}
		return h.Phase().String(), h.Alpha(), h.PinnedCount()
	}))

	if source != nil {
		ping := func() error { return nil }
		if p, ok := source.(corpusPinger); ok {
			ping = func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return p.Ping(ctx)
			}
		}
		corpusCheck := health.CorpusCheck(source.Name(), ping)
		hc.RegisterCheck("corpus", corpusCheck)
		hc.RegisterReadinessCheck("corpus", corpusCheck)
	}

	if bus != nil {
		hc.RegisterCheck("stream", health.StreamCheck(func() (int, uint64) {
			return bus.SubscriberCount(), bus.Dropped()
		}))
	}

	memoryCheck := health.MemoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	})
	hc.RegisterCheck("memory", memoryCheck)
	hc.RegisterLivenessCheck("memory", memoryCheck)
}
