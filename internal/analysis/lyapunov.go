package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. The first free particle's position is
// shifted by perturbation along x. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Measure their phase-space separation after every step
// 3. λ ≈ mean(ln(|δx(t)|/|δx(0)|)) / dt, renormalizing when it grows past 1
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if x0.Len() == 0 || !(dt > 0) || !(perturbation > 0) {
		return 0
	}

	target := 0
	if pins, ok := sys.(dynamo.Pinner); ok {
		for target < x0.Len() && pins.IsFixed(target) {
			target++
		}
		if target == x0.Len() {
			return 0
		}
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp.Positions[target].X += perturbation
	d0 := perturbation

	t := 0.0
	sumLog := 0.0
	count := 0

	for t < duration {
		x = integ.Integrate(sys, x, t, dt)
		xp = integ.Integrate(sys, xp, t, dt)
		t += dt

		sep := separation(x, xp)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// Renormalize to prevent overflow
		if sep > 1.0 {
			scale := d0 / sep
			for i := range xp.Positions {
				xp.Positions[i] = r3.Add(x.Positions[i], r3.Scale(scale, r3.Sub(xp.Positions[i], x.Positions[i])))
				xp.Velocities[i] = r3.Add(x.Velocities[i], r3.Scale(scale, r3.Sub(xp.Velocities[i], x.Velocities[i])))
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

func separation(a, b dynamo.State) float64 {
	sum := 0.0
	for i := range a.Positions {
		sum += r3.Norm2(r3.Sub(a.Positions[i], b.Positions[i]))
		sum += r3.Norm2(r3.Sub(a.Velocities[i], b.Velocities[i]))
	}
	return math.Sqrt(sum)
}
