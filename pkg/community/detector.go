// Package community groups graph nodes by merging across strong
// co-occurrence links.
package community

import (
	"sort"

	"github.com/dd0wney/keygraph/pkg/graph"
)

// MergeThreshold is the link value two communities must exceed to join.
// Strictly greater: a link of exactly this value never merges.
const MergeThreshold = 2

// Community is one detected group of keywords
type Community struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
	Size     int      `json:"size"`
	// Density is internal links over possible internal pairs
	Density float64 `json:"density"`
}

// Result summarizes one detection run
type Result struct {
	Communities   []*Community   `json:"communities"`
	NodeCommunity map[string]int `json:"node_community"`
	Count         int            `json:"count"`
}

// Detect assigns a community label to every node in g and returns a summary.
// Labels are contiguous from 0 in node order, so two runs over the same
// graph always produce identical labels.
//
// The procedure: every node starts in its own community, links are visited
// strongest first (ties keep graph order), and a link above the threshold
// merges its endpoint communities with the source side's label surviving.
func Detect(g *graph.Graph) *Result {
	result := &Result{
		Communities:   make([]*Community, 0),
		NodeCommunity: make(map[string]int),
	}
	if len(g.Nodes) == 0 {
		return result
	}

	index := g.Index()

	// Initialize: each node in its own community
	labels := make([]int, len(g.Nodes))
	for i := range labels {
		labels[i] = i
	}

	ordered := make([]*graph.Link, len(g.Links))
	copy(ordered, g.Links)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Value > ordered[j].Value
	})

	for _, link := range ordered {
		si, ok := index[link.Source]
		if !ok {
			continue
		}
		ti, ok := index[link.Target]
		if !ok {
			continue
		}
		if labels[si] == labels[ti] || link.Value <= MergeThreshold {
			continue
		}
		// Relabel the whole target community; the source label survives
		winner, loser := labels[si], labels[ti]
		for i := range labels {
			if labels[i] == loser {
				labels[i] = winner
			}
		}
	}

	// Renumber surviving labels contiguously from 0 in node order
	remap := make(map[int]int)
	next := 0
	for i, node := range g.Nodes {
		id, ok := remap[labels[i]]
		if !ok {
			id = next
			remap[labels[i]] = id
			next++
		}
		node.Community = id
		result.NodeCommunity[node.ID] = id
	}
	result.Count = next

	result.Communities = make([]*Community, next)
	for i := 0; i < next; i++ {
		result.Communities[i] = &Community{ID: i, Keywords: make([]string, 0)}
	}
	for _, node := range g.Nodes {
		c := result.Communities[node.Community]
		c.Keywords = append(c.Keywords, node.ID)
		c.Size++
	}
	for _, c := range result.Communities {
		c.Density = internalDensity(g, result.NodeCommunity, c)
	}

	return result
}

// internalDensity counts links inside the community against the pair count
func internalDensity(g *graph.Graph, membership map[string]int, c *Community) float64 {
	if c.Size < 2 {
		return 0
	}
	internal := 0
	for _, link := range g.Links {
		if membership[link.Source] == c.ID && membership[link.Target] == c.ID {
			internal++
		}
	}
	possible := c.Size * (c.Size - 1) / 2
	return float64(internal) / float64(possible)
}
