package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultWindStrength is the peak wind force magnitude.
const DefaultWindStrength = 5.0

// WindForce returns the gusting wind force at time t: a slowly turning
// direction scaled by strength*cos(t).
func WindForce(t, strength float64) r3.Vec {
	dir := r3.Vec{X: math.Sin(t / 2), Y: math.Sin(t), Z: math.Cos(t / 3)}
	norm := r3.Norm(dir)
	if norm == 0 {
		return r3.Vec{}
	}
	return r3.Scale(strength*math.Cos(t)/norm, dir)
}
