package pipeline

import (
	"errors"
	"time"

	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
)

var (
	// ErrSessionStopped is returned by operations on a stopped session
	ErrSessionStopped = errors.New("pipeline: session stopped")

	// ErrNotBuilt is returned when no rebuild has completed yet
	ErrNotBuilt = errors.New("pipeline: no graph built yet")
)

// Config controls how a session turns documents into a laid-out graph
type Config struct {
	// MaxNodes caps the graph at the N most frequent keywords
	MaxNodes int

	// MinStrength drops links whose co-occurrence count is below it
	MinStrength int

	// Variant selects the force profile; empty means standard
	Variant layout.Variant

	// Layout carries canvas size, seed and force tuning
	Layout layout.Options

	// Extractor carries the delimiter set
	Extractor keywords.ExtractorOptions
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		MaxNodes:    30,
		MinStrength: 1,
		Variant:     layout.VariantStandard,
		Layout:      layout.DefaultOptions(800, 600),
		Extractor:   keywords.DefaultExtractorOptions(),
	}
}

// Timings breaks a rebuild down by stage
type Timings struct {
	Extract time.Duration `json:"extract"`
	Build   time.Duration `json:"build"`
	Detect  time.Duration `json:"detect"`
	Layout  time.Duration `json:"layout"`
	Total   time.Duration `json:"total"`
}

// Result holds the artifacts of one completed rebuild. The graph it
// references is fully labelled: community detection always finishes
// before the layout handle exists.
type Result struct {
	SessionID   string
	Documents   int
	Stats       []keywords.KeywordStat
	Graph       *graph.Graph
	Communities *community.Result
	Handle      *layout.Handle
	Timings     Timings
}
