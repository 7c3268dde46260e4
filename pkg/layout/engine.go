// Package layout runs the tick-driven force simulation that positions the
// keyword graph. The engine never schedules itself: an external loop (TUI
// tick, server goroutine, test) calls Tick until it reports settled.
package layout

import (
	"math"
	"math/rand"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/dd0wney/keygraph/pkg/graph"
)

const (
	minRadiusPx = 5.0
	maxRadiusPx = 25.0

	// goldenAngle spreads seeded positions on a phyllotaxis disc
	goldenAngle = math.Pi * (3 - 2.2360679774997896) // 3 - sqrt(5)
)

// Handle drives one simulation over a graph. All methods are safe for
// concurrent use; observers may Snapshot while a scheduler Ticks.
type Handle struct {
	mu sync.RWMutex

	g       *graph.Graph
	variant Variant
	opts    Options

	index map[string]int
	radii []float64
	fx    []float64
	fy    []float64
	links []resolvedLink

	minCount int
	maxCount int

	alpha    float64
	phase    Phase
	tick     int
	selected string
	pinned   int
}

// resolvedLink caches endpoint indices and the spring target distance
type resolvedLink struct {
	source   int
	target   int
	value    int
	distance float64
}

// Start seeds a fresh simulation over g. Positions are always reseeded:
// a rebuilt graph never warm-starts from stale coordinates. An empty graph
// settles immediately.
func Start(g *graph.Graph, variant Variant, opts Options) *Handle {
	opts = opts.withDefaults()
	if variant == "" {
		variant = VariantStandard
	}

	n := len(g.Nodes)
	h := &Handle{
		g:       g,
		variant: variant,
		opts:    opts,
		index:   g.Index(),
		radii:   make([]float64, n),
		fx:      make([]float64, n),
		fy:      make([]float64, n),
		alpha:   opts.Alpha,
		phase:   PhaseInitializing,
	}

	if n == 0 {
		h.phase = PhaseSettled
		return h
	}

	h.minCount, h.maxCount = countBounds(g.Nodes)
	for i, node := range g.Nodes {
		h.radii[i] = NodeRadius(node.Count, h.minCount, h.maxCount)
	}

	for _, link := range g.Links {
		si, ok := h.index[link.Source]
		if !ok {
			continue
		}
		ti, ok := h.index[link.Target]
		if !ok {
			continue
		}
		h.links = append(h.links, resolvedLink{
			source:   si,
			target:   ti,
			value:    link.Value,
			distance: opts.LinkDistance / math.Sqrt(float64(link.Value)),
		})
	}

	h.seedPositions()
	return h
}

// seedPositions scatters nodes on a disc around the canvas centre. The rng
// only jitters the deterministic spiral so equal seeds reproduce equal runs.
func (h *Handle) seedPositions() {
	rng := rand.New(rand.NewSource(h.opts.Seed))
	cx, cy := h.opts.Width/2, h.opts.Height/2

	n := len(h.g.Nodes)
	spread := math.Min(h.opts.Width, h.opts.Height) / (4 * math.Sqrt(float64(n)))
	if spread < 1 {
		spread = 1
	}

	for i, node := range h.g.Nodes {
		r := spread * math.Sqrt(float64(i)+0.5)
		theta := float64(i) * goldenAngle
		node.X = cx + r*math.Cos(theta) + rng.Float64() - 0.5
		node.Y = cy + r*math.Sin(theta) + rng.Float64() - 0.5
		node.VX, node.VY = 0, 0
		node.FX, node.FY = nil, nil
	}
}

// Tick advances the simulation one step. It returns false once the
// simulation is settled or stopped.
func (h *Handle) Tick() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.phase {
	case PhaseStopped, PhaseSettled:
		return false
	}
	if h.alpha < h.opts.AlphaMin {
		// Cold engine: nothing integrates until a reheat
		h.phase = PhaseSettled
		return false
	}

	h.step()
	h.tick++

	h.alpha *= 1 - h.opts.AlphaDecay
	if h.pinned > 0 {
		h.phase = PhasePinning
	} else {
		h.phase = PhaseRunning
	}
	return true
}

// step accumulates forces then integrates. Order matters only in that
// integration sees the full accumulated force of the tick.
func (h *Handle) step() {
	for i := range h.fx {
		h.fx[i] = 0
		h.fy[i] = 0
	}

	h.applyLinkForce()
	h.applyChargeForce()
	h.applyCenterForce()
	h.applyCollideForce()

	switch h.variant {
	case VariantRadial:
		h.applyAxisForce()
		h.applyRadialForce()
	case VariantCluster:
		h.applyClusterForce()
	}

	h.integrate()
}

// integrate applies v += F*alpha with friction, clamps runaway velocities,
// and holds pinned nodes exactly at their pin
func (h *Handle) integrate() {
	damp := 1 - h.opts.VelocityDecay
	for i, node := range h.g.Nodes {
		if node.Pinned() {
			node.X, node.Y = *node.FX, *node.FY
			node.VX, node.VY = 0, 0
			continue
		}
		vx := (node.VX + h.fx[i]*h.alpha) * damp
		vy := (node.VY + h.fy[i]*h.alpha) * damp
		node.VX = clamp(vx, -h.opts.MaxVelocity, h.opts.MaxVelocity)
		node.VY = clamp(vy, -h.opts.MaxVelocity, h.opts.MaxVelocity)
		node.X += node.VX
		node.Y += node.VY
	}
}

// Pin holds a node at the given position starting with the next tick
func (h *Handle) Pin(id string, x, y float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase == PhaseStopped {
		return ErrEngineStopped
	}
	i, ok := h.index[id]
	if !ok {
		return ErrNodeNotFound
	}

	node := h.g.Nodes[i]
	if !node.Pinned() {
		h.pinned++
	}
	px, py := x, y
	node.FX, node.FY = &px, &py
	node.X, node.Y = x, y
	node.VX, node.VY = 0, 0
	h.phase = PhasePinning
	return nil
}

// Unpin releases a node and reheats so the graph relaxes around its new
// position
func (h *Handle) Unpin(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase == PhaseStopped {
		return ErrEngineStopped
	}
	i, ok := h.index[id]
	if !ok {
		return ErrNodeNotFound
	}

	node := h.g.Nodes[i]
	if node.Pinned() {
		h.pinned--
	}
	node.FX, node.FY = nil, nil
	h.reheatLocked(h.opts.ReheatAlpha)
	return nil
}

// Reheat restores the temperature so a settled simulation resumes.
// Non-positive alpha restores the configured reheat level.
func (h *Handle) Reheat(alpha float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if alpha <= 0 {
		alpha = h.opts.ReheatAlpha
	}
	h.reheatLocked(alpha)
}

func (h *Handle) reheatLocked(alpha float64) {
	if h.phase == PhaseStopped || len(h.g.Nodes) == 0 {
		return
	}
	h.alpha = clamp(alpha, h.opts.AlphaMin, 1)
	if h.pinned > 0 {
		h.phase = PhasePinning
	} else {
		h.phase = PhaseRestarted
	}
}

// Stop ends the simulation permanently
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseStopped
}

// Select marks a node as the UI selection; an empty id clears it
func (h *Handle) Select(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id == "" {
		h.selected = ""
		return nil
	}
	if _, ok := h.index[id]; !ok {
		return ErrNodeNotFound
	}
	h.selected = id
	return nil
}

// SelectedNode returns the current selection, empty if none
func (h *Handle) SelectedNode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected
}

// Phase returns the current lifecycle state
func (h *Handle) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// Alpha returns the current temperature
func (h *Handle) Alpha() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alpha
}

// Variant returns the force profile the handle was started with
func (h *Handle) Variant() Variant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.variant
}

// PinnedCount returns how many nodes are currently pinned
func (h *Handle) PinnedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pinned
}

// TickCount returns how many steps have run
func (h *Handle) TickCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tick
}

// Snapshot copies the simulation state for rendering or streaming
func (h *Handle) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := Snapshot{
		Phase:    h.phase.String(),
		Alpha:    h.alpha,
		Tick:     h.tick,
		Variant:  string(h.variant),
		Width:    h.opts.Width,
		Height:   h.opts.Height,
		Selected: h.selected,
		Nodes:    make([]NodeSnapshot, len(h.g.Nodes)),
	}
	for i, node := range h.g.Nodes {
		snap.Nodes[i] = NodeSnapshot{
			ID:        node.ID,
			Count:     node.Count,
			Community: node.Community,
			X:         node.X,
			Y:         node.Y,
			VX:        node.VX,
			VY:        node.VY,
			Radius:    h.radii[i],
			Pinned:    node.Pinned(),
		}
	}
	return snap
}

// NodeRadius maps a keyword count onto the rendered radius using a square
// root scale, so area tracks frequency
func NodeRadius(count, minCount, maxCount int) float64 {
	if maxCount <= minCount {
		return (minRadiusPx + maxRadiusPx) / 2
	}
	lo := math.Sqrt(float64(minCount))
	hi := math.Sqrt(float64(maxCount))
	t := (math.Sqrt(float64(count)) - lo) / (hi - lo)
	return minRadiusPx + clamp(t, 0, 1)*(maxRadiusPx-minRadiusPx)
}

// countBounds finds the min and max keyword counts in the node set
func countBounds(nodes []*graph.Node) (int, int) {
	minC, maxC := nodes[0].Count, nodes[0].Count
	for _, n := range nodes[1:] {
		if n.Count < minC {
			minC = n.Count
		}
		if n.Count > maxC {
			maxC = n.Count
		}
	}
	return minC, maxC
}

// clamp bounds v to [lo, hi]
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
