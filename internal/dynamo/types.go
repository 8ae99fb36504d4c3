package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the time-varying part of a particle ensemble. Positions[i] and
// Velocities[i] describe the same particle. A derivative is also a State:
// its Positions hold velocities and its Velocities hold accelerations.
type State struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
}

func NewState(n int) State {
	return State{
		Positions:  make([]r3.Vec, n),
		Velocities: make([]r3.Vec, n),
	}
}

func (s State) Len() int { return len(s.Positions) }

func (s State) Clone() State {
	c := State{
		Positions:  make([]r3.Vec, len(s.Positions)),
		Velocities: make([]r3.Vec, len(s.Velocities)),
	}
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	return c
}

// Validate reports whether the parallel sequences agree in length and,
// when n >= 0, whether they hold exactly n particles.
func (s State) Validate(n int) error {
	if len(s.Positions) != len(s.Velocities) {
		return fmt.Errorf("%w: %d positions, %d velocities", ErrDimensionMismatch, len(s.Positions), len(s.Velocities))
	}
	if n >= 0 && len(s.Positions) != n {
		return fmt.Errorf("%w: state has %d particles, system has %d", ErrDimensionMismatch, len(s.Positions), n)
	}
	return nil
}

func (s State) IsValid() bool {
	for i := range s.Positions {
		if !finite(s.Positions[i]) {
			return false
		}
	}
	for i := range s.Velocities {
		if !finite(s.Velocities[i]) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	return s.AddScaled(1, other)
}

func (s State) Scale(factor float64) State {
	result := NewState(len(s.Positions))
	for i := range s.Positions {
		result.Positions[i] = r3.Scale(factor, s.Positions[i])
		result.Velocities[i] = r3.Scale(factor, s.Velocities[i])
	}
	return result
}

// AddScaled returns s + factor*other. Both states must hold the same number
// of particles.
func (s State) AddScaled(factor float64, other State) State {
	result := NewState(len(s.Positions))
	for i := range s.Positions {
		result.Positions[i] = r3.Add(s.Positions[i], r3.Scale(factor, other.Positions[i]))
		result.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(factor, other.Velocities[i]))
	}
	return result
}

// MaxDistance returns the largest position gap between matching particles.
func (s State) MaxDistance(other State) float64 {
	maxDist := 0.0
	for i := range s.Positions {
		if i >= len(other.Positions) {
			break
		}
		maxDist = math.Max(maxDist, r3.Norm(r3.Sub(s.Positions[i], other.Positions[i])))
	}
	return maxDist
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// System maps a state and time to its time derivative. Implementations must
// not mutate x.
type System interface {
	ComputeDerivative(x State, t float64) State
	NumParticles() int
}

// Integrator advances x by one step of size dt starting at time t.
type Integrator interface {
	Integrate(sys System, x State, t, dt float64) State
}

// Preparer is implemented by systems that need setup before the first
// derivative evaluation.
type Preparer interface {
	Ready() error
}

// Pinner reports which particles are fixed in place.
type Pinner interface {
	IsFixed(i int) bool
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}
