package layout

import "math"

const (
	// minDistance2 floors squared distances so coincident nodes cannot
	// produce NaN or infinite forces
	minDistance2 = 1.0

	collideStrength = 0.7
)

// applyLinkForce pulls linked nodes toward a spring length that shrinks as
// the link value grows, split evenly between the endpoints
func (h *Handle) applyLinkForce() {
	for _, l := range h.links {
		s := h.g.Nodes[l.source]
		t := h.g.Nodes[l.target]

		dx, dy, dist := separation(t.X-s.X, t.Y-s.Y)
		f := h.opts.LinkStrength * (dist - l.distance) / dist
		fx, fy := dx*f*0.5, dy*f*0.5

		h.fx[l.source] += fx
		h.fy[l.source] += fy
		h.fx[l.target] -= fx
		h.fy[l.target] -= fy
	}
}

// applyChargeForce repels every node pair, strength falling with squared
// distance
func (h *Handle) applyChargeForce() {
	nodes := h.g.Nodes
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			dx, dy, dist := separation(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			// Negative strength repels, matching the usual charge convention
			mag := -h.opts.ChargeStrength / (dist * dist)
			fx := dx / dist * mag
			fy := dy / dist * mag

			h.fx[i] += fx
			h.fy[i] += fy
			h.fx[j] -= fx
			h.fy[j] -= fy
		}
	}
}

// applyCenterForce nudges the whole drawing so its centroid drifts toward
// the canvas centre
func (h *Handle) applyCenterForce() {
	nodes := h.g.Nodes
	var cx, cy float64
	for _, node := range nodes {
		cx += node.X
		cy += node.Y
	}
	n := float64(len(nodes))
	cx /= n
	cy /= n

	fx := (h.opts.Width/2 - cx) * h.opts.CenterStrength
	fy := (h.opts.Height/2 - cy) * h.opts.CenterStrength
	for i := range nodes {
		h.fx[i] += fx
		h.fy[i] += fy
	}
}

// applyCollideForce pushes overlapping nodes apart based on their rendered
// radii plus padding
func (h *Handle) applyCollideForce() {
	nodes := h.g.Nodes
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			sum := h.radii[i] + h.radii[j] + 2*h.opts.CollidePadding
			dx, dy, dist := separation(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			if dist >= sum {
				continue
			}
			f := collideStrength * (sum - dist) / dist
			fx, fy := dx*f*0.5, dy*f*0.5

			h.fx[i] += fx
			h.fy[i] += fy
			h.fx[j] -= fx
			h.fy[j] -= fy
		}
	}
}

// applyAxisForce is the radial variant's weak pull toward both canvas axes
func (h *Handle) applyAxisForce() {
	cx, cy := h.opts.Width/2, h.opts.Height/2
	for i, node := range h.g.Nodes {
		h.fx[i] += (cx - node.X) * h.opts.AxisStrength
		h.fy[i] += (cy - node.Y) * h.opts.AxisStrength
	}
}

// applyRadialForce drives each node toward a ring whose radius grows with
// its keyword count
func (h *Handle) applyRadialForce() {
	cx, cy := h.opts.Width/2, h.opts.Height/2
	maxRing := 0.4 * math.Min(h.opts.Width, h.opts.Height)

	for i, node := range h.g.Nodes {
		target := 0.0
		if h.maxCount > 0 {
			target = maxRing * float64(node.Count) / float64(h.maxCount)
		}
		dx, dy, dist := separation(node.X-cx, node.Y-cy)
		f := h.opts.RadialStrength * (target - dist) / dist

		h.fx[i] += dx * f
		h.fy[i] += dy * f
	}
}

// applyClusterForce attracts each node to its community's centroid. The
// centroids come from live positions on every call; caching them across
// ticks would anchor clusters at stale coordinates.
func (h *Handle) applyClusterForce() {
	nodes := h.g.Nodes

	maxCommunity := 0
	for _, node := range nodes {
		if node.Community > maxCommunity {
			maxCommunity = node.Community
		}
	}

	sumX := make([]float64, maxCommunity+1)
	sumY := make([]float64, maxCommunity+1)
	members := make([]int, maxCommunity+1)
	for _, node := range nodes {
		sumX[node.Community] += node.X
		sumY[node.Community] += node.Y
		members[node.Community]++
	}

	for i, node := range nodes {
		c := node.Community
		if members[c] < 2 {
			continue
		}
		centroidX := sumX[c] / float64(members[c])
		centroidY := sumY[c] / float64(members[c])

		h.fx[i] += (centroidX - node.X) * h.opts.ClusterGain
		h.fy[i] += (centroidY - node.Y) * h.opts.ClusterGain
	}
}

// separation returns a direction and distance with the squared distance
// floored, nudging exactly coincident nodes apart along x so force
// directions stay finite and deterministic
func separation(dx, dy float64) (float64, float64, float64) {
	d2 := dx*dx + dy*dy
	if d2 >= minDistance2 {
		return dx, dy, math.Sqrt(d2)
	}
	if dx == 0 && dy == 0 {
		dx = 1
	}
	return dx, dy, 1
}
