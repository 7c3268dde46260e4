package graphql

import (
	"context"
	"testing"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/graphql-go/graphql"
)

// newTestSession builds a session over a small corpus. The graph/layout
// pair co-occurs three times, so community detection merges them.
func newTestSession(t *testing.T) *pipeline.Session {
	t.Helper()

	s, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	t.Cleanup(s.Stop)

	docs := []corpus.Document{
		{ID: "1", Keywords: "graph;layout;force"},
		{ID: "2", Keywords: "graph;layout"},
		{ID: "3", Keywords: "graph;layout"},
		{ID: "4", Keywords: "graph;community"},
	}
	if _, err := s.Rebuild(context.Background(), docs); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return s
}

func buildTestSchema(t *testing.T, s *pipeline.Session) graphql.Schema {
	t.Helper()
	schema, err := BuildSchema(s)
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}
	return schema
}

// runQuery executes a query and fails the test on any GraphQL error
func runQuery(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	result := ExecuteQuery(query, schema)
	if result.HasErrors() {
		t.Fatalf("Query returned errors: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("Unexpected data type %T", result.Data)
	}
	return data
}

func TestBuildSchema(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	if schema.QueryType() == nil {
		t.Error("Schema missing Query type")
	}
	for _, name := range []string{"KeywordStat", "Connection", "Node", "Link", "Graph", "Community", "Layout"} {
		if schema.TypeMap()[name] == nil {
			t.Errorf("Schema missing %s type", name)
		}
	}
}

func TestHealthQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{ health }`)
	if data["health"] != "ok" {
		t.Errorf("health = %v, want ok", data["health"])
	}
}

func TestStatsQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{
		stats {
			keyword
			count
			percentage
			connections { keyword strength }
		}
	}`)

	stats, ok := data["stats"].([]any)
	if !ok {
		t.Fatalf("stats is %T, want list", data["stats"])
	}
	if len(stats) != 4 {
		t.Fatalf("len(stats) = %d, want 4", len(stats))
	}

	first := stats[0].(map[string]any)
	if first["keyword"] != "graph" {
		t.Errorf("First stat keyword = %v, want graph", first["keyword"])
	}
	if first["count"] != 4 {
		t.Errorf("First stat count = %v, want 4", first["count"])
	}
	if first["percentage"] != 100.0 {
		t.Errorf("First stat percentage = %v, want 100", first["percentage"])
	}

	conns := first["connections"].([]any)
	if len(conns) == 0 {
		t.Fatal("Top keyword should have connections")
	}
	top := conns[0].(map[string]any)
	if top["keyword"] != "layout" || top["strength"] != 3 {
		t.Errorf("Strongest connection = %v, want layout/3", top)
	}
}

func TestStatsQueryLimit(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{ stats(limit: 2) { keyword } }`)
	stats := data["stats"].([]any)
	if len(stats) != 2 {
		t.Errorf("len(stats) = %d, want 2", len(stats))
	}

	// Limits below the floor clamp up instead of erroring
	data = runQuery(t, schema, `{ stats(limit: 0) { keyword } }`)
	stats = data["stats"].([]any)
	if len(stats) != 1 {
		t.Errorf("len(stats) with clamped limit = %d, want 1", len(stats))
	}

	// Limits above the stat count return everything
	data = runQuery(t, schema, `{ stats(limit: 100) { keyword } }`)
	stats = data["stats"].([]any)
	if len(stats) != 4 {
		t.Errorf("len(stats) with oversized limit = %d, want 4", len(stats))
	}
}

func TestGraphQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{
		graph {
			nodes { id count community x y radius pinned }
			links { source target value }
		}
	}`)

	g := data["graph"].(map[string]any)
	nodes := g["nodes"].([]any)
	links := g["links"].([]any)

	if len(nodes) != 4 {
		t.Errorf("len(nodes) = %d, want 4", len(nodes))
	}
	if len(links) != 4 {
		t.Errorf("len(links) = %d, want 4", len(links))
	}

	for _, raw := range nodes {
		n := raw.(map[string]any)
		if n["radius"].(float64) <= 0 {
			t.Errorf("Node %v has non-positive radius", n["id"])
		}
		if n["pinned"] != false {
			t.Errorf("Node %v should start unpinned", n["id"])
		}
	}

	found := false
	for _, raw := range links {
		l := raw.(map[string]any)
		if l["source"] == "graph" && l["target"] == "layout" {
			found = true
			if l["value"] != 3 {
				t.Errorf("graph-layout link value = %v, want 3", l["value"])
			}
		}
	}
	if !found {
		t.Error("graph-layout link missing")
	}
}

func TestNodeQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	result := ExecuteQueryWithVariables(`
		query NodeByID($id: ID!) {
			node(id: $id) { id count community }
		}`, schema, map[string]any{"id": "graph"})
	if result.HasErrors() {
		t.Fatalf("Query returned errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	node, ok := data["node"].(map[string]any)
	if !ok {
		t.Fatalf("node is %T, want object", data["node"])
	}
	if node["id"] != "graph" || node["count"] != 4 {
		t.Errorf("node = %v, want graph/4", node)
	}
	if node["community"] != 0 {
		t.Errorf("node community = %v, want 0", node["community"])
	}

	// Unknown IDs resolve to null, not an error
	result = ExecuteQueryWithVariables(`
		query NodeByID($id: ID!) {
			node(id: $id) { id }
		}`, schema, map[string]any{"id": "nonexistent"})
	if result.HasErrors() {
		t.Fatalf("Query returned errors: %v", result.Errors)
	}
	data = result.Data.(map[string]any)
	if data["node"] != nil {
		t.Errorf("Unknown node = %v, want nil", data["node"])
	}
}

func TestCommunitiesQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{ communities { id size density keywords } }`)
	comms := data["communities"].([]any)
	if len(comms) != 3 {
		t.Fatalf("len(communities) = %d, want 3", len(comms))
	}

	first := comms[0].(map[string]any)
	if first["id"] != 0 {
		t.Errorf("First community id = %v, want 0", first["id"])
	}
	if first["size"] != 2 {
		t.Errorf("First community size = %v, want 2", first["size"])
	}
	kws := first["keywords"].([]any)
	if len(kws) != 2 {
		t.Errorf("First community keywords = %v, want graph and layout", kws)
	}
}

func TestLayoutQuery(t *testing.T) {
	schema := buildTestSchema(t, newTestSession(t))

	data := runQuery(t, schema, `{ layout { phase alpha tick variant } }`)
	l := data["layout"].(map[string]any)

	if l["phase"] != "initializing" {
		t.Errorf("phase = %v, want initializing", l["phase"])
	}
	if l["alpha"].(float64) <= 0 {
		t.Errorf("alpha = %v, want positive", l["alpha"])
	}
	if l["tick"] != 0 {
		t.Errorf("tick = %v, want 0", l["tick"])
	}
	if l["variant"] != "standard" {
		t.Errorf("variant = %v, want standard", l["variant"])
	}
}

// Queries against a session with no completed rebuild resolve to empty
// values rather than errors.
func TestQueriesBeforeRebuild(t *testing.T) {
	s, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	t.Cleanup(s.Stop)
	schema := buildTestSchema(t, s)

	data := runQuery(t, schema, `{ stats { keyword } }`)
	if stats, ok := data["stats"].([]any); ok && len(stats) != 0 {
		t.Errorf("stats before rebuild = %v, want empty", stats)
	}

	data = runQuery(t, schema, `{ graph { nodes { id } links { source } } }`)
	g := data["graph"].(map[string]any)
	if nodes := g["nodes"].([]any); len(nodes) != 0 {
		t.Errorf("nodes before rebuild = %v, want empty", nodes)
	}
	if links := g["links"].([]any); len(links) != 0 {
		t.Errorf("links before rebuild = %v, want empty", links)
	}

	data = runQuery(t, schema, `{ layout { phase } }`)
	if data["layout"] != nil {
		t.Errorf("layout before rebuild = %v, want nil", data["layout"])
	}

	data = runQuery(t, schema, `{ communities { id } }`)
	if comms := data["communities"].([]any); len(comms) != 0 {
		t.Errorf("communities before rebuild = %v, want empty", comms)
	}
}
