package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Circular rotates every particle about the z axis with unit angular
// velocity. From (1, 0, 0) the exact trajectory is (cos t, sin t, 0),
// which makes it a reference problem for integrator accuracy.
type Circular struct{}

func NewCircular() *Circular {
	return &Circular{}
}

func (c *Circular) NumParticles() int { return 1 }

func (c *Circular) ComputeDerivative(x dynamo.State, _ float64) dynamo.State {
	deriv := dynamo.NewState(x.Len())
	for i, p := range x.Positions {
		deriv.Positions[i] = r3.Vec{X: -p.Y, Y: p.X}
	}
	return deriv
}

// Exact returns the analytic position at time t for a particle that started
// at (1, 0, 0).
func (c *Circular) Exact(t float64) r3.Vec {
	return r3.Vec{X: math.Cos(t), Y: math.Sin(t)}
}
