// Package pipeline chains extraction, graph building, community
// detection and layout behind a single rebuild entry point.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/metrics"
)

// Session owns the document-to-layout chain and its latest artifacts.
// Reads are safe while a rebuild runs; the artifact swap is atomic.
type Session struct {
	id  string
	log logging.Logger
	met *metrics.Registry

	mu      sync.RWMutex
	cfg     Config
	ext     *keywords.Extractor
	last    *Result
	stopped bool
}

// Option configures a session at construction time
type Option func(*Session)

// WithLogger replaces the default logger
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics attaches a metrics registry
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Session) { s.met = m }
}

// New creates a session with a validated config
func New(cfg Config, opts ...Option) (*Session, error) {
	variant, err := layout.ParseVariant(string(cfg.Variant))
	if err != nil {
		return nil, err
	}
	cfg.Variant = variant

	if cfg.MaxNodes <= 0 {
		return nil, fmt.Errorf("pipeline: max nodes must be positive, got %d", cfg.MaxNodes)
	}
	if cfg.MinStrength < 0 {
		return nil, fmt.Errorf("pipeline: min strength must not be negative, got %d", cfg.MinStrength)
	}

	s := &Session{
		id:  uuid.New().String(),
		log: logging.DefaultLogger(),
		cfg: cfg,
		ext: keywords.NewExtractor(cfg.Extractor),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logging.Session(s.id))
	return s, nil
}

// ID returns the session identifier used in logs, metrics and frames
func (s *Session) ID() string {
	return s.id
}

// Config returns the settings the next rebuild will use
func (s *Session) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Configure stores new pipeline settings, applied on the next Rebuild.
// The current graph and layout are left untouched.
func (s *Session) Configure(maxNodes, minStrength int, variant layout.Variant) error {
	parsed, err := layout.ParseVariant(string(variant))
	if err != nil {
		return err
	}
	if maxNodes <= 0 {
		return fmt.Errorf("pipeline: max nodes must be positive, got %d", maxNodes)
	}
	if minStrength < 0 {
		return fmt.Errorf("pipeline: min strength must not be negative, got %d", minStrength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSessionStopped
	}
	s.cfg.MaxNodes = maxNodes
	s.cfg.MinStrength = minStrength
	s.cfg.Variant = parsed

	s.log.Info("Session reconfigured",
		logging.Int("max_nodes", maxNodes),
		logging.Int("min_strength", minStrength),
		logging.Variant(string(parsed)),
	)
	return nil
}

// Rebuild runs the full chain: extract, build, detect, then a fresh
// layout. Detection always finishes before the new handle exists, so a
// half-labelled graph is never observable. The previous handle is
// stopped after the swap. Positions are reseeded every time.
func (s *Session) Rebuild(ctx context.Context, docs []corpus.Document) (*Result, error) {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return nil, ErrSessionStopped
	}
	cfg := s.cfg
	ext := s.ext
	s.mu.RUnlock()

	totalStart := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, s.failRebuild(err)
	}

	stageStart := time.Now()
	stats := ext.Extract(docs)
	extractTime := time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, s.failRebuild(err)
	}

	stageStart = time.Now()
	g := graph.Build(stats, graph.BuildOptions{
		MaxNodes:    cfg.MaxNodes,
		MinStrength: cfg.MinStrength,
	})
	buildTime := time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, s.failRebuild(err)
	}

	stageStart = time.Now()
	comms := community.Detect(g)
	detectTime := time.Since(stageStart)

	stageStart = time.Now()
	handle := layout.Start(g, cfg.Variant, cfg.Layout)
	layoutTime := time.Since(stageStart)

	res := &Result{
		SessionID:   s.id,
		Documents:   len(docs),
		Stats:       stats,
		Graph:       g,
		Communities: comms,
		Handle:      handle,
		Timings: Timings{
			Extract: extractTime,
			Build:   buildTime,
			Detect:  detectTime,
			Layout:  layoutTime,
			Total:   time.Since(totalStart),
		},
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		handle.Stop()
		return nil, ErrSessionStopped
	}
	prev := s.last
	s.last = res
	s.mu.Unlock()

	if prev != nil && prev.Handle != nil {
		prev.Handle.Stop()
	}

	if s.met != nil {
		s.met.RecordRebuildStage("extract", extractTime)
		s.met.RecordRebuildStage("build", buildTime)
		s.met.RecordRebuildStage("detect", detectTime)
		s.met.RecordRebuildStage("layout", layoutTime)
		s.met.RecordRebuild("success", res.Timings.Total,
			len(docs), len(stats), len(g.Nodes), len(g.Links), comms.Count)
	}

	s.log.Info("Graph rebuilt",
		logging.Documents(len(docs)),
		logging.Int("keywords", len(stats)),
		logging.Nodes(len(g.Nodes)),
		logging.Links(len(g.Links)),
		logging.Communities(comms.Count),
		logging.Variant(string(cfg.Variant)),
		logging.Latency(res.Timings.Total),
	)
	return res, nil
}

func (s *Session) failRebuild(err error) error {
	if s.met != nil {
		s.met.RecordRebuild("error", 0, 0, 0, 0, 0, 0)
	}
	s.log.Warn("Rebuild aborted", logging.Error(err))
	return err
}

// Result returns the latest completed rebuild
func (s *Session) Result() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, ErrNotBuilt
	}
	return s.last, nil
}

// Stats returns the latest keyword statistics, nil before any rebuild
func (s *Session) Stats() []keywords.KeywordStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	return s.last.Stats
}

// Graph returns the latest built graph, nil before any rebuild
func (s *Session) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	return s.last.Graph
}

// Handle returns the live layout handle, nil before any rebuild
func (s *Session) Handle() *layout.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	return s.last.Handle
}

// Tick advances the live simulation one step. The session never ticks
// itself; schedulers call this. Returns false when there is nothing to
// run.
func (s *Session) Tick() bool {
	h := s.Handle()
	if h == nil {
		return false
	}

	start := time.Now()
	ran := h.Tick()

	if s.met != nil {
		if ran {
			s.met.RecordTick(string(h.Variant()), time.Since(start))
		}
		s.met.SetLayoutState(h.Alpha(), h.Phase() == layout.PhaseSettled, h.PinnedCount())
	}
	return ran
}

// Snapshot returns a consistent copy of the live layout
func (s *Session) Snapshot() (layout.Snapshot, error) {
	h := s.Handle()
	if h == nil {
		return layout.Snapshot{}, ErrNotBuilt
	}
	return h.Snapshot(), nil
}

// Pin holds a node at the given position until Unpin
func (s *Session) Pin(id string, x, y float64) error {
	h := s.Handle()
	if h == nil {
		return ErrNotBuilt
	}
	return h.Pin(id, x, y)
}

// Unpin releases a pinned node and reheats the simulation
func (s *Session) Unpin(id string) error {
	h := s.Handle()
	if h == nil {
		return ErrNotBuilt
	}
	return h.Unpin(id)
}

// Reheat restores simulation energy so a settled layout resumes
func (s *Session) Reheat(alpha float64) error {
	h := s.Handle()
	if h == nil {
		return ErrNotBuilt
	}
	h.Reheat(alpha)
	return nil
}

// Select marks a node as selected for UI consumers; empty id clears
func (s *Session) Select(id string) error {
	h := s.Handle()
	if h == nil {
		return ErrNotBuilt
	}
	return h.Select(id)
}

// Stop ends the session; further rebuilds fail with ErrSessionStopped
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	res := s.last
	s.mu.Unlock()

	if res != nil && res.Handle != nil {
		res.Handle.Stop()
	}
	s.log.Info("Session stopped")
}
