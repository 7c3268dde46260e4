package graph

import (
	"reflect"
	"testing"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/keywords"
)

// extractStats runs the extractor over keyword fields, one per document
func extractStats(fields ...string) []keywords.KeywordStat {
	docs := make([]corpus.Document, len(fields))
	for i, f := range fields {
		docs[i] = corpus.Document{Keywords: f}
	}
	return keywords.NewExtractor(keywords.ExtractorOptions{}).Extract(docs)
}

// findLink returns the link between two IDs regardless of orientation
func findLink(g *Graph, a, b string) *Link {
	for _, l := range g.Links {
		if (l.Source == a && l.Target == b) || (l.Source == b && l.Target == a) {
			return l
		}
	}
	return nil
}

func TestBuildBasicScenario(t *testing.T) {
	stats := extractStats("A; B; C", "A; B")

	g := Build(stats, BuildOptions{MaxNodes: 3, MinStrength: 1})

	if len(g.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Links) != 3 {
		t.Fatalf("Expected 3 links, got %d", len(g.Links))
	}

	if l := findLink(g, "A", "B"); l == nil || l.Value != 2 {
		t.Errorf("A-B link missing or wrong value: %+v", l)
	}
	if l := findLink(g, "A", "C"); l == nil || l.Value != 1 {
		t.Errorf("A-C link missing or wrong value: %+v", l)
	}
	if l := findLink(g, "B", "C"); l == nil || l.Value != 1 {
		t.Errorf("B-C link missing or wrong value: %+v", l)
	}
}

func TestBuildMinStrengthThreshold(t *testing.T) {
	stats := extractStats("A; B; C", "A; B")

	g := Build(stats, BuildOptions{MaxNodes: 3, MinStrength: 2})

	// Only A-B (strength 2) survives; A, B, C all stay as nodes
	if len(g.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(g.Links))
	}
	if l := findLink(g, "A", "B"); l == nil {
		t.Error("A-B link should survive the threshold")
	}
	// C stays as an isolated node with degree zero
	if _, ok := g.NodeByID("C"); !ok {
		t.Error("C should remain as an isolated node")
	}
}

func TestBuildMaxNodesTruncation(t *testing.T) {
	// e ranks last (count 1 via a single doc), the rest rank by count
	stats := extractStats(
		"a; b", "a; b", "a; c", "b; c", "a; d", "e",
	)

	g := Build(stats, BuildOptions{MaxNodes: 3, MinStrength: 1})

	if len(g.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	// Links to dropped endpoints must disappear
	for _, l := range g.Links {
		if _, ok := g.NodeByID(l.Source); !ok {
			t.Errorf("Link source %q not in graph", l.Source)
		}
		if _, ok := g.NodeByID(l.Target); !ok {
			t.Errorf("Link target %q not in graph", l.Target)
		}
	}
}

func TestBuildNodeOrderFollowsRank(t *testing.T) {
	stats := extractStats("x; y", "x; y", "x", "z")

	g := Build(stats, BuildOptions{MaxNodes: 10, MinStrength: 1})

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	// x count 3, y count 2, z count 1
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Node order = %v, want %v", ids, want)
	}
}

func TestBuildEmptyAndZeroConfigs(t *testing.T) {
	stats := extractStats("a; b")

	cases := []struct {
		name string
		opts BuildOptions
	}{
		{"zero max nodes", BuildOptions{MaxNodes: 0, MinStrength: 1}},
		{"negative max nodes", BuildOptions{MaxNodes: -5, MinStrength: 1}},
	}
	for _, tc := range cases {
		g := Build(stats, tc.opts)
		if len(g.Nodes) != 0 || len(g.Links) != 0 {
			t.Errorf("%s: expected empty graph, got %d nodes %d links",
				tc.name, len(g.Nodes), len(g.Links))
		}
		if g.Nodes == nil || g.Links == nil {
			t.Errorf("%s: slices must be non-nil", tc.name)
		}
	}

	if g := Build(nil, DefaultBuildOptions()); len(g.Nodes) != 0 {
		t.Errorf("Nil stats should build an empty graph")
	}
}

func TestBuildNegativeMinStrength(t *testing.T) {
	stats := extractStats("a; b")

	g := Build(stats, BuildOptions{MaxNodes: 10, MinStrength: -3})

	// Negative threshold behaves like no threshold
	if len(g.Links) != 1 {
		t.Errorf("Expected 1 link with negative threshold, got %d", len(g.Links))
	}
}

func TestBuildDedupUnorderedPairs(t *testing.T) {
	// Both A's and B's connection lists mention the pair; only one link
	// may come out
	stats := extractStats("a; b", "b; a")

	g := Build(stats, BuildOptions{MaxNodes: 10, MinStrength: 1})

	if len(g.Links) != 1 {
		t.Fatalf("Expected 1 deduped link, got %d", len(g.Links))
	}

	seen := make(map[[2]string]int)
	for _, l := range g.Links {
		seen[pairKey(l.Source, l.Target)]++
	}
	for pair, n := range seen {
		if n > 1 {
			t.Errorf("Pair %v appears %d times", pair, n)
		}
	}
}

func TestBuildNoSelfLinks(t *testing.T) {
	stats := extractStats("dup; dup; other")

	g := Build(stats, BuildOptions{MaxNodes: 10, MinStrength: 1})

	for _, l := range g.Links {
		if l.Source == l.Target {
			t.Errorf("Self link on %q", l.Source)
		}
	}
}

func TestBuildDoesNotMutateStats(t *testing.T) {
	stats := extractStats("a; b; c", "a; b")
	snapshot := make([]keywords.KeywordStat, len(stats))
	copy(snapshot, stats)

	Build(stats, BuildOptions{MaxNodes: 2, MinStrength: 2})

	if !reflect.DeepEqual(stats, snapshot) {
		t.Error("Build mutated its input stats")
	}
}

func TestNodePinned(t *testing.T) {
	n := &Node{ID: "k"}
	if n.Pinned() {
		t.Error("Fresh node should not be pinned")
	}
	x, y := 10.0, 20.0
	n.FX, n.FY = &x, &y
	if !n.Pinned() {
		t.Error("Node with FX/FY set should be pinned")
	}
}

func TestGraphIndex(t *testing.T) {
	g := Build(extractStats("a; b", "c"), BuildOptions{MaxNodes: 10, MinStrength: 1})

	idx := g.Index()
	if len(idx) != 3 {
		t.Fatalf("Index size = %d, want 3", len(idx))
	}
	for i, n := range g.Nodes {
		if idx[n.ID] != i {
			t.Errorf("Index[%q] = %d, want %d", n.ID, idx[n.ID], i)
		}
	}
}
