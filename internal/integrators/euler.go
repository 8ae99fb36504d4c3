package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Euler is the explicit first-order method. The derivative is sampled at the
// end of the step, x(t+dt) = x + dt*f(x, t+dt).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.ComputeDerivative(x, t+dt)
	return x.AddScaled(dt, dx)
}
