package server

import (
	"context"
	"errors"
	"testing"

	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/health"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/stream"
)

func TestBuildFileSource(t *testing.T) {
	cfg := config.Default()
	cfg.Corpus.File.Path = "corpus.csv"

	source, err := BuildSource(context.Background(), cfg)
	if err != nil {
		t.Fatalf("BuildSource failed: %v", err)
	}
	if source.Name() != "file" {
		t.Errorf("Name() = %q, want file", source.Name())
	}
}

func TestBuildSourceUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Corpus.Source = "carrier-pigeon"

	if _, err := BuildSource(context.Background(), cfg); err == nil {
		t.Error("Unknown source should be rejected")
	}
}

// pingySource lets the corpus check observe a failing probe
type pingySource struct {
	err error
}

func (p *pingySource) Name() string { return "pingy" }

func (p *pingySource) Load(ctx context.Context) ([]corpus.Document, error) {
	return nil, nil
}

func (p *pingySource) Ping(ctx context.Context) error { return p.err }

func TestRegisterHealthChecks(t *testing.T) {
	session, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	t.Cleanup(session.Stop)

	bus := stream.NewBus()
	defer bus.Shutdown()
	source := &pingySource{}

	hc := health.NewHealthChecker()
	RegisterHealthChecks(hc, session, source, bus)

	resp := hc.Check()
	if resp.Checks["pipeline"].Status != health.StatusDegraded {
		t.Errorf("pipeline = %v, want degraded before first build", resp.Checks["pipeline"].Status)
	}
	if resp.Checks["layout"].Status != health.StatusDegraded {
		t.Errorf("layout = %v, want degraded with no engine", resp.Checks["layout"].Status)
	}
	if resp.Checks["corpus"].Status != health.StatusHealthy {
		t.Errorf("corpus = %v, want healthy", resp.Checks["corpus"].Status)
	}
	if resp.Checks["stream"].Status != health.StatusHealthy {
		t.Errorf("stream = %v, want healthy", resp.Checks["stream"].Status)
	}
	if resp.Status != health.StatusDegraded {
		t.Errorf("overall = %v, want degraded", resp.Status)
	}

	// Liveness only watches memory; an unbuilt pipeline does not fail it
	if live := hc.CheckLiveness(); live.Status != health.StatusHealthy {
		t.Errorf("liveness = %v, want healthy", live.Status)
	}

	// A built graph turns the full check healthy
	docs := []corpus.Document{
		{ID: "1", Keywords: "alpha;beta"},
		{ID: "2", Keywords: "alpha;beta"},
	}
	if _, err := session.Rebuild(context.Background(), docs); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if resp := hc.Check(); resp.Status != health.StatusHealthy {
		t.Errorf("overall after rebuild = %v, want healthy", resp.Status)
	}

	// A failing corpus probe makes the process unhealthy
	source.err = errors.New("connection refused")
	resp = hc.Check()
	if resp.Checks["corpus"].Status != health.StatusUnhealthy {
		t.Errorf("corpus = %v, want unhealthy", resp.Checks["corpus"].Status)
	}
	if resp.Status != health.StatusUnhealthy {
		t.Errorf("overall = %v, want unhealthy", resp.Status)
	}
}

func TestRegisterHealthChecksWithoutSource(t *testing.T) {
	session, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	t.Cleanup(session.Stop)

	hc := health.NewHealthChecker()
	RegisterHealthChecks(hc, session, nil, nil)

	resp := hc.Check()
	if _, ok := resp.Checks["corpus"]; ok {
		t.Error("corpus check should be absent without a source")
	}
	if _, ok := resp.Checks["stream"]; ok {
		t.Error("stream check should be absent without a bus")
	}
	if _, ok := resp.Checks["pipeline"]; !ok {
		t.Error("pipeline check should be registered")
	}
}
