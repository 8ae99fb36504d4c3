package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Integrate(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := dt * 0.5

	k1 := sys.ComputeDerivative(x, t)
	k2 := sys.ComputeDerivative(x.AddScaled(half, k1), t+half)
	k3 := sys.ComputeDerivative(x.AddScaled(half, k2), t+half)
	k4 := sys.ComputeDerivative(x.AddScaled(dt, k3), t+dt)

	sum := k1.Add(k4).AddScaled(2, k2.Add(k3))
	return x.AddScaled(dt/6.0, sum)
}
