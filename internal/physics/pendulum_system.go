package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// PendulumSystem is a mass-spring-damper network under gravity, linear drag
// and an optional gusting wind. Topology (masses, springs) is append-only;
// pins, gravity, drag and wind may change between steps.
//
// After the last AddParticle/AddSpring call, BuildAdjacency must run before
// the first derivative evaluation.
type PendulumSystem struct {
	masses   []float64
	fixed    []bool
	springs  []Spring
	incident [][]int // spring indices touching each particle
	stale    bool

	gravity      r3.Vec
	drag         float64
	windOn       bool
	windStrength float64
}

func NewPendulumSystem(gravity r3.Vec, drag float64) *PendulumSystem {
	return &PendulumSystem{
		gravity:      gravity,
		drag:         drag,
		windStrength: DefaultWindStrength,
	}
}

func (p *PendulumSystem) NumParticles() int { return len(p.masses) }

// AddParticle appends a free particle and returns its index.
func (p *PendulumSystem) AddParticle(mass float64) (int, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return -1, fmt.Errorf("%w: mass %g", dynamo.ErrParameterBounds, mass)
	}
	p.masses = append(p.masses, mass)
	p.fixed = append(p.fixed, false)
	p.stale = true
	return len(p.masses) - 1, nil
}

func (p *PendulumSystem) AddSpring(start, end int, restLength, stiffness float64) error {
	s := Spring{Start: start, End: end, RestLength: restLength, Stiffness: stiffness}
	if err := s.validate(len(p.masses)); err != nil {
		return fmt.Errorf("add spring: %w", err)
	}
	p.springs = append(p.springs, s)
	p.stale = true
	return nil
}

// BuildAdjacency indexes the springs incident to each particle.
func (p *PendulumSystem) BuildAdjacency() {
	p.incident = make([][]int, len(p.masses))
	for idx, s := range p.springs {
		p.incident[s.Start] = append(p.incident[s.Start], idx)
		p.incident[s.End] = append(p.incident[s.End], idx)
	}
	p.stale = false
}

// Ready implements dynamo.Preparer.
func (p *PendulumSystem) Ready() error {
	if p.stale {
		return dynamo.ErrStaleAdjacency
	}
	return nil
}

func (p *PendulumSystem) FixParticle(i int) error {
	return p.setFixed(i, true)
}

func (p *PendulumSystem) ReleaseParticle(i int) error {
	return p.setFixed(i, false)
}

func (p *PendulumSystem) setFixed(i int, fixed bool) error {
	if i < 0 || i >= len(p.fixed) {
		return fmt.Errorf("%w: %d not in [0, %d)", dynamo.ErrIndexOutOfRange, i, len(p.fixed))
	}
	p.fixed[i] = fixed
	return nil
}

// IsFixed implements dynamo.Pinner. Out of range indices are free.
func (p *PendulumSystem) IsFixed(i int) bool {
	return i >= 0 && i < len(p.fixed) && p.fixed[i]
}

func (p *PendulumSystem) Mass(i int) float64 { return p.masses[i] }

// Springs returns a copy of the spring list.
func (p *PendulumSystem) Springs() []Spring {
	out := make([]Spring, len(p.springs))
	copy(out, p.springs)
	return out
}

func (p *PendulumSystem) Gravity() r3.Vec           { return p.gravity }
func (p *PendulumSystem) SetGravity(g r3.Vec)       { p.gravity = g }
func (p *PendulumSystem) Drag() float64             { return p.drag }
func (p *PendulumSystem) SetDrag(drag float64)      { p.drag = drag }
func (p *PendulumSystem) WindEnabled() bool         { return p.windOn }
func (p *PendulumSystem) SetWind(enabled bool)      { p.windOn = enabled }
func (p *PendulumSystem) WindStrength() float64     { return p.windStrength }
func (p *PendulumSystem) SetWindStrength(v float64) { p.windStrength = v }

func (p *PendulumSystem) ComputeDerivative(x dynamo.State, t float64) dynamo.State {
	if p.stale {
		panic(dynamo.ErrStaleAdjacency)
	}
	n := len(p.masses)
	if x.Len() != n {
		panic(fmt.Errorf("%w: state has %d particles, system has %d", dynamo.ErrDimensionMismatch, x.Len(), n))
	}

	var wind r3.Vec
	if p.windOn {
		wind = WindForce(t, p.windStrength)
	}

	deriv := dynamo.NewState(n)
	for i := 0; i < n; i++ {
		// Fixed particles keep a zero derivative.
		if p.fixed[i] {
			continue
		}
		m := p.masses[i]
		v := x.Velocities[i]

		force := r3.Add(r3.Scale(m, p.gravity), r3.Scale(-p.drag, v))
		for _, idx := range p.incident[i] {
			s := p.springs[idx]
			force = r3.Add(force, s.Force(x.Positions[i], x.Positions[s.Other(i)]))
		}
		force = r3.Add(force, wind)

		deriv.Positions[i] = v
		deriv.Velocities[i] = r3.Scale(1/m, force)
	}
	return deriv
}

// Energy implements dynamo.Hamiltonian: kinetic plus spring potential plus
// gravitational potential measured against the origin. Drag and wind make
// the system non-conservative, so this is a diagnostic only.
func (p *PendulumSystem) Energy(x dynamo.State) float64 {
	e := 0.0
	for i, m := range p.masses {
		if i >= x.Len() {
			break
		}
		e += 0.5*m*r3.Norm2(x.Velocities[i]) - m*r3.Dot(p.gravity, x.Positions[i])
	}
	for _, s := range p.springs {
		if s.Start < x.Len() && s.End < x.Len() {
			e += s.PotentialEnergy(x.Positions[s.Start], x.Positions[s.End])
		}
	}
	return e
}

// GetParams returns the runtime-tunable parameters.
func (p *PendulumSystem) GetParams() map[string]float64 {
	return map[string]float64{
		"drag":      p.drag,
		"gravity_y": p.gravity.Y,
		"wind":      p.windStrength,
	}
}

// SetParam updates a runtime-tunable parameter by name.
func (p *PendulumSystem) SetParam(name string, value float64) error {
	switch name {
	case "drag":
		p.drag = value
	case "gravity_y":
		p.gravity.Y = value
	case "wind":
		p.windStrength = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}
