package collision

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// VelocityMode selects how a position correction feeds back into velocity.
type VelocityMode uint8

const (
	// VelocityAdditive adds correction/dt to the integrated velocity.
	VelocityAdditive VelocityMode = iota
	// VelocityOverride replaces the velocity with correction/dt.
	VelocityOverride
)

func (m VelocityMode) String() string {
	switch m {
	case VelocityAdditive:
		return "additive"
	case VelocityOverride:
		return "override"
	}
	return "unknown"
}

// apply returns the velocity after a correction of delta over dt. A
// non-positive dt leaves the velocity untouched.
func (m VelocityMode) apply(v, delta r3.Vec, dt float64) r3.Vec {
	if dt <= 0 {
		return v
	}
	impulse := r3.Scale(1/dt, delta)
	if m == VelocityOverride {
		return impulse
	}
	return r3.Add(v, impulse)
}

// Obstacles is the per-frame snapshot of everything particles collide with.
// It is passed by value and stays constant across the sub-steps of a frame.
type Obstacles struct {
	Sphere Sphere
	Ground Ground
}

// Contacts counts the corrections made by one Resolve call.
type Contacts struct {
	Sphere int
	Ground int
}

func (c Contacts) Total() int { return c.Sphere + c.Ground }

func (c *Contacts) Add(o Contacts) {
	c.Sphere += o.Sphere
	c.Ground += o.Ground
}

// Resolve corrects x in place against the sphere and then the ground.
// Particles reported fixed by pins are skipped; a nil pins treats every
// particle as free.
func Resolve(obs Obstacles, x *dynamo.State, pins dynamo.Pinner, dt float64) Contacts {
	return Contacts{
		Sphere: obs.Sphere.Apply(x, pins, dt),
		Ground: obs.Ground.Apply(x, pins, dt),
	}
}

func pinned(pins dynamo.Pinner, i int) bool {
	return pins != nil && pins.IsFixed(i)
}
