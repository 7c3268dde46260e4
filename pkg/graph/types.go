// Package graph holds the renderable co-occurrence graph model and its
// builder.
package graph

// Node is one keyword in the graph. Position and velocity are owned by the
// layout engine; Community is assigned by community detection.
type Node struct {
	ID        string  `json:"id"`
	Count     int     `json:"count"`
	Community int     `json:"community"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	// FX/FY are the pin coordinates; nil means unpinned
	FX *float64 `json:"fx"`
	FY *float64 `json:"fy"`
}

// Pinned reports whether the node is held at a fixed position
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Link is an undirected edge between two keywords. Source and Target are
// node IDs, never resolved references, so a graph serializes cleanly.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Graph is what the layout engine and every consumer renders. Nodes keep
// their insertion order (rank order from the keyword stats).
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Links []*Link `json:"links"`
}

// NewGraph returns an empty graph with non-nil slices
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]*Node, 0),
		Links: make([]*Link, 0),
	}
}

// NodeByID finds a node by keyword
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Index maps node IDs to their position in Nodes
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}
