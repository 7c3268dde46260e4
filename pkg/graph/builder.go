package graph

import (
	"github.com/dd0wney/keygraph/pkg/keywords"
)

// BuildOptions bound the graph size
type BuildOptions struct {
	// MaxNodes caps the node count; zero or negative yields an empty graph
	MaxNodes int
	// MinStrength drops links weaker than this; values below 1 have no
	// effect since every connection has strength at least 1
	MinStrength int
}

// DefaultBuildOptions returns the bounds used by the interactive surfaces
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxNodes:    30,
		MinStrength: 1,
	}
}

// Build selects the top-ranked keywords as nodes and keeps links whose both
// endpoints survived the cut and whose strength meets the threshold. Each
// unordered pair appears at most once; the first-discovered orientation is
// kept. Stats are read, never mutated.
func Build(stats []keywords.KeywordStat, opts BuildOptions) *Graph {
	g := NewGraph()

	if opts.MaxNodes <= 0 || len(stats) == 0 {
		return g
	}

	limit := opts.MaxNodes
	if limit > len(stats) {
		limit = len(stats)
	}
	selected := stats[:limit]

	inGraph := make(map[string]bool, limit)
	for _, stat := range selected {
		g.Nodes = append(g.Nodes, &Node{
			ID:    stat.Keyword,
			Count: stat.Count,
		})
		inGraph[stat.Keyword] = true
	}

	seen := make(map[[2]string]bool)
	for _, stat := range selected {
		for _, conn := range stat.Connections {
			if conn.Keyword == stat.Keyword {
				continue
			}
			if !inGraph[conn.Keyword] {
				continue
			}
			if conn.Strength < opts.MinStrength {
				continue
			}
			key := pairKey(stat.Keyword, conn.Keyword)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.Links = append(g.Links, &Link{
				Source: stat.Keyword,
				Target: conn.Keyword,
				Value:  conn.Strength,
			})
		}
	}

	return g
}

// pairKey canonicalizes an unordered endpoint pair
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
