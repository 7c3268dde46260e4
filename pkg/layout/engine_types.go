package layout

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrEngineStopped  = errors.New("simulation stopped")
	ErrUnknownVariant = errors.New("unknown layout variant")
)

// Variant selects the force arrangement
type Variant string

const (
	// VariantStandard combines link, charge, center and collision forces
	VariantStandard Variant = "standard"
	// VariantRadial adds weak axis centering and a radial pull to a ring
	// whose radius grows with keyword count
	VariantRadial Variant = "radial"
	// VariantCluster adds an attraction toward each community's centroid,
	// recomputed from live positions every tick
	VariantCluster Variant = "cluster"
)

// ParseVariant validates a variant name
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantStandard, VariantRadial, VariantCluster:
		return Variant(s), nil
	case "":
		return VariantStandard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Phase is the simulation lifecycle state
type Phase int

const (
	// PhaseInitializing means positions are seeded but no tick has run
	PhaseInitializing Phase = iota
	// PhaseRunning means the simulation is cooling normally
	PhaseRunning
	// PhaseSettled means alpha reached its floor; ticks are no-ops
	PhaseSettled
	// PhasePinning means at least one node is dragged or held
	PhasePinning
	// PhaseRestarted means alpha was reheated and the next tick resumes
	PhaseRestarted
	// PhaseStopped is terminal
	PhaseStopped
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseSettled:
		return "settled"
	case PhasePinning:
		return "pinning"
	case PhaseRestarted:
		return "restarted"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options tunes the simulation. DefaultOptions covers every field; zero
// values fall back to it in Start.
type Options struct {
	Width  float64
	Height float64
	// Seed drives initial placement; equal seeds reproduce equal runs
	Seed int64

	Alpha         float64 // initial temperature
	AlphaMin      float64 // settle floor
	AlphaDecay    float64 // multiplicative cooling per tick
	VelocityDecay float64 // friction applied after integration
	MaxVelocity   float64 // per-axis speed clamp

	LinkDistance   float64 // base spring length for value-1 links
	LinkStrength   float64
	ChargeStrength float64 // negative repels
	CenterStrength float64
	CollidePadding float64
	RadialStrength float64
	AxisStrength   float64 // weak x/y centering in the radial variant
	ClusterGain    float64 // centroid pull in the cluster variant
	ReheatAlpha    float64 // temperature restored on drag
}

// DefaultOptions returns the tuning the interactive surfaces use
func DefaultOptions(width, height float64) Options {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	return Options{
		Width:  width,
		Height: height,
		Seed:   1,

		Alpha:         1.0,
		AlphaMin:      0.001,
		AlphaDecay:    0.02,
		VelocityDecay: 0.25,
		MaxVelocity:   50,

		LinkDistance:   100,
		LinkStrength:   0.1,
		ChargeStrength: -1200,
		CenterStrength: 0.05,
		CollidePadding: 2,
		RadialStrength: 0.08,
		AxisStrength:   0.03,
		ClusterGain:    0.1,
		ReheatAlpha:    0.3,
	}
}

// withDefaults fills unset fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions(o.Width, o.Height)
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	if o.Alpha <= 0 {
		o.Alpha = d.Alpha
	}
	if o.AlphaMin <= 0 {
		o.AlphaMin = d.AlphaMin
	}
	if o.AlphaDecay <= 0 {
		o.AlphaDecay = d.AlphaDecay
	}
	if o.VelocityDecay <= 0 {
		o.VelocityDecay = d.VelocityDecay
	}
	if o.MaxVelocity <= 0 {
		o.MaxVelocity = d.MaxVelocity
	}
	if o.LinkDistance <= 0 {
		o.LinkDistance = d.LinkDistance
	}
	if o.LinkStrength <= 0 {
		o.LinkStrength = d.LinkStrength
	}
	if o.ChargeStrength == 0 {
		o.ChargeStrength = d.ChargeStrength
	}
	if o.CenterStrength <= 0 {
		o.CenterStrength = d.CenterStrength
	}
	if o.CollidePadding < 0 {
		o.CollidePadding = d.CollidePadding
	}
	if o.RadialStrength <= 0 {
		o.RadialStrength = d.RadialStrength
	}
	if o.AxisStrength <= 0 {
		o.AxisStrength = d.AxisStrength
	}
	if o.ClusterGain <= 0 {
		o.ClusterGain = d.ClusterGain
	}
	if o.ReheatAlpha <= 0 {
		o.ReheatAlpha = d.ReheatAlpha
	}
	return o
}

// NodeSnapshot is one node's state inside a Snapshot
type NodeSnapshot struct {
	ID        string  `json:"id"`
	Count     int     `json:"count"`
	Community int     `json:"community"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Radius    float64 `json:"radius"`
	Pinned    bool    `json:"pinned"`
}

// Snapshot is a consistent copy of the simulation state for consumers
type Snapshot struct {
	Phase    string         `json:"phase"`
	Alpha    float64        `json:"alpha"`
	Tick     int            `json:"tick"`
	Variant  string         `json:"variant"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Selected string         `json:"selected,omitempty"`
	Nodes    []NodeSnapshot `json:"nodes"`
}
