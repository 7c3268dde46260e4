package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/keygraph/pkg/graph"
)

// randomGraph builds a graph with n nodes and links taken from
// (source, target, value) index triples, indices reduced modulo n
func randomGraph(n int, specs [][3]int) *graph.Graph {
	g := graph.NewGraph()
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, &graph.Node{
			ID:        fmt.Sprintf("k%d", i),
			Count:     1 + i%7,
			Community: i % 3,
		})
	}
	for _, s := range specs {
		src, dst := s[0]%n, s[1]%n
		if src == dst {
			continue
		}
		g.Links = append(g.Links, &graph.Link{
			Source: g.Nodes[src].ID,
			Target: g.Nodes[dst].ID,
			Value:  s[2],
		})
	}
	return g
}

func linkSpecGen(maxIndex int) gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, maxIndex),
		gen.IntRange(0, maxIndex),
		gen.IntRange(1, 5),
	).Map(func(vals []interface{}) [3]int {
		return [3]int{vals[0].(int), vals[1].(int), vals[2].(int)}
	})
}

func TestSimulationProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property tests in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	nodeCountGen := gen.IntRange(1, 40)
	linksGen := gen.SliceOf(linkSpecGen(39))
	seedGen := gen.Int64Range(1, 1<<30)
	variantGen := gen.OneConstOf(VariantStandard, VariantRadial, VariantCluster)

	properties.Property("positions and velocities stay bounded", prop.ForAll(
		func(n int, specs [][3]int, seed int64, variant Variant) bool {
			opts := DefaultOptions(800, 600)
			opts.Seed = seed

			g := randomGraph(n, specs)
			h := Start(g, variant, opts)
			for i := 0; i < 500; i++ {
				if !h.Tick() {
					break
				}
			}

			limit := 10 * math.Hypot(800, 600)
			for _, node := range g.Nodes {
				if math.IsNaN(node.X) || math.IsNaN(node.Y) ||
					math.IsInf(node.X, 0) || math.IsInf(node.Y, 0) {
					return false
				}
				if math.Hypot(node.X-400, node.Y-300) > limit {
					return false
				}
				if math.Abs(node.VX) > opts.MaxVelocity || math.Abs(node.VY) > opts.MaxVelocity {
					return false
				}
			}
			return true
		},
		nodeCountGen, linksGen, seedGen, variantGen,
	))

	properties.Property("pinned nodes hold exact coordinates until released", prop.ForAll(
		func(n int, specs [][3]int, pick int, px, py float64) bool {
			g := randomGraph(n, specs)
			h := Start(g, VariantStandard, DefaultOptions(800, 600))
			h.Tick()
			h.Tick()

			node := g.Nodes[pick%n]
			if err := h.Pin(node.ID, px, py); err != nil {
				return false
			}
			for i := 0; i < 50; i++ {
				h.Tick()
				if node.X != px || node.Y != py || node.VX != 0 || node.VY != 0 {
					return false
				}
			}

			if err := h.Unpin(node.ID); err != nil {
				return false
			}
			return !node.Pinned()
		},
		nodeCountGen, linksGen, gen.IntRange(0, 1000),
		gen.Float64Range(-500, 1300), gen.Float64Range(-500, 1100),
	))

	properties.Property("identical runs produce identical trajectories", prop.ForAll(
		func(n int, specs [][3]int, seed int64, variant Variant) bool {
			opts := DefaultOptions(800, 600)
			opts.Seed = seed

			g1 := randomGraph(n, specs)
			g2 := randomGraph(n, specs)
			h1 := Start(g1, variant, opts)
			h2 := Start(g2, variant, opts)

			for i := 0; i < 60; i++ {
				h1.Tick()
				h2.Tick()
			}
			for i := range g1.Nodes {
				if g1.Nodes[i].X != g2.Nodes[i].X || g1.Nodes[i].Y != g2.Nodes[i].Y {
					return false
				}
			}
			return true
		},
		nodeCountGen, linksGen, seedGen, variantGen,
	))

	properties.Property("alpha decays monotonically while running", prop.ForAll(
		func(n int, specs [][3]int) bool {
			g := randomGraph(n, specs)
			h := Start(g, VariantStandard, DefaultOptions(800, 600))

			prev := h.Alpha()
			for i := 0; i < 100; i++ {
				if !h.Tick() {
					break
				}
				if h.Alpha() >= prev {
					return false
				}
				prev = h.Alpha()
			}
			return true
		},
		nodeCountGen, linksGen,
	))

	properties.TestingRun(t)
}
