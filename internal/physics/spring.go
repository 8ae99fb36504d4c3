package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// degenerateLength is the spring extension below which the spring direction
// is treated as undefined and the spring contributes no force.
const degenerateLength = 1e-9

// Spring joins two particles. It is immutable once added to a system.
type Spring struct {
	Start      int
	End        int
	RestLength float64
	Stiffness  float64
}

func (s Spring) validate(numParticles int) error {
	if s.Start < 0 || s.Start >= numParticles || s.End < 0 || s.End >= numParticles {
		return fmt.Errorf("%w: spring (%d, %d) with %d particles", dynamo.ErrIndexOutOfRange, s.Start, s.End, numParticles)
	}
	if s.Start == s.End {
		return fmt.Errorf("%w: spring joins particle %d to itself", dynamo.ErrInvalidSpring, s.Start)
	}
	if !(s.RestLength > 0) || math.IsInf(s.RestLength, 0) {
		return fmt.Errorf("%w: rest length %g", dynamo.ErrInvalidSpring, s.RestLength)
	}
	if !(s.Stiffness > 0) || math.IsInf(s.Stiffness, 0) {
		return fmt.Errorf("%w: stiffness %g", dynamo.ErrInvalidSpring, s.Stiffness)
	}
	return nil
}

// Other returns the endpoint opposite i.
func (s Spring) Other(i int) int {
	if s.Start == i {
		return s.End
	}
	return s.Start
}

// Force returns the Hooke force on the particle at p from its neighbor at q.
func (s Spring) Force(p, q r3.Vec) r3.Vec {
	d := r3.Sub(p, q)
	length := r3.Norm(d)
	if length < degenerateLength {
		return r3.Vec{}
	}
	return r3.Scale(-s.Stiffness*(length-s.RestLength)/length, d)
}

// Strain returns the relative extension |len - rest| / rest.
func (s Spring) Strain(p, q r3.Vec) float64 {
	return math.Abs(r3.Norm(r3.Sub(p, q))-s.RestLength) / s.RestLength
}

// PotentialEnergy returns k/2 (len - rest)^2.
func (s Spring) PotentialEnergy(p, q r3.Vec) float64 {
	ext := r3.Norm(r3.Sub(p, q)) - s.RestLength
	return 0.5 * s.Stiffness * ext * ext
}
