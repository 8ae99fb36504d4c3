package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Trapezoidal is Heun's method: an Euler predictor followed by averaging the
// slopes at both ends of the step.
type Trapezoidal struct{}

func NewTrapezoidal() *Trapezoidal {
	return &Trapezoidal{}
}

func (tr *Trapezoidal) Integrate(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	f0 := sys.ComputeDerivative(x, t)
	f1 := sys.ComputeDerivative(x.AddScaled(dt, f0), t+dt)
	return x.AddScaled(dt/2, f0.Add(f1))
}
