// Package physics provides force models for particle simulation.
//
// Each model implements the [dynamo.System] interface, returning the time
// derivative of a particle state:
//
//   - [Circular]: unit-speed rotation about the z axis, a reference
//     problem with a known exact solution
//   - [PendulumSystem]: point masses joined by [Spring] values under
//     gravity, drag and an optional [WindForce]
//
// [PendulumSystem] also implements [dynamo.Pinner] for fixed particles,
// [dynamo.Preparer] for the spring adjacency lifecycle and
// [dynamo.Hamiltonian] for energy diagnostics:
//
//	sys := physics.NewPendulumSystem(r3.Vec{Y: -9.81}, 0.1)
//	a, _ := sys.AddParticle(1)
//	b, _ := sys.AddParticle(1)
//	_ = sys.AddSpring(a, b, 1, 50)
//	_ = sys.FixParticle(a)
//	sys.BuildAdjacency()
//
// Zero-length springs contribute no force rather than a NaN direction.
package physics
