// Package dynamo provides core simulation primitives for particle systems.
//
// The package defines the fundamental types and contracts for explicit
// integration of ordinary differential equations over particle ensembles:
//
//   - [State]: positions and velocities of every particle
//   - [System]: force model computing dX/dt = f(X, t)
//   - [Integrator]: numerical method advancing a [State] by one step
//   - [Pinner]: reports particles that are fixed in place
//   - [Metric] and [Observer]: per-step hooks
//
// # Example
//
//	sys := physics.NewCircular()
//	integ := integrators.NewRK4()
//	x := dynamo.NewState(1)
//	x.Positions[0] = r3.Vec{X: 1}
//	x = integ.Integrate(sys, x, 0, 0.01)
//
// A [State] is a value with slice fields. [State.Add], [State.Scale] and
// [State.AddScaled] always allocate; receivers are never modified.
package dynamo
