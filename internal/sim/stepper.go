package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Stepper turns variable frame times into a whole number of fixed-size
// sub-steps, carrying the leftover time to the next frame.
//
// A frame shorter than one step is taken as a single step of the frame's
// own length and discards the carried remainder. A zero frame also
// discards the remainder but takes no step.
//
// A frame that would need more than the sub-step limit is rejected with
// dynamo.ErrParameterBounds and leaves the rollover untouched.
type Stepper struct {
	step     float64
	maxSteps int
	rollover float64
}

// DefaultMaxSubSteps bounds the sub-steps of a single frame.
const DefaultMaxSubSteps = 10000

// StepperSnapshot is the restorable state of a Stepper.
type StepperSnapshot struct {
	rollover float64
}

func NewStepper(step float64) (*Stepper, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step must be positive and finite, got %g", dynamo.ErrParameterBounds, step)
	}
	return &Stepper{step: step, maxSteps: DefaultMaxSubSteps}, nil
}

// SetMaxSubSteps changes the per-frame sub-step limit. Values below one
// restore DefaultMaxSubSteps.
func (s *Stepper) SetMaxSubSteps(n int) {
	if n < 1 {
		n = DefaultMaxSubSteps
	}
	s.maxSteps = n
}

// Plan returns how many sub-steps of which size cover frameDt.
func (s *Stepper) Plan(frameDt float64) (n int, dt float64, err error) {
	if math.IsNaN(frameDt) || math.IsInf(frameDt, 0) || frameDt < 0 {
		return 0, 0, fmt.Errorf("%w: frame time %g", dynamo.ErrParameterBounds, frameDt)
	}
	if frameDt < s.step {
		s.rollover = 0
		if frameDt == 0 {
			return 0, 0, nil
		}
		return 1, frameDt, nil
	}

	total := s.rollover + frameDt
	need := math.Floor(total / s.step)
	if need > float64(s.maxSteps)+1 {
		return 0, 0, s.limitError(frameDt)
	}
	n = int(need)
	rem := total - float64(n)*s.step
	// floor can land one step off when rollover/step is within an ulp of
	// an integer
	if rem < 0 {
		n--
		rem += s.step
	} else if rem >= s.step {
		n++
		rem -= s.step
	}
	if n > s.maxSteps {
		return 0, 0, s.limitError(frameDt)
	}
	s.rollover = math.Max(rem, 0)
	return n, s.step, nil
}

func (s *Stepper) limitError(frameDt float64) error {
	return fmt.Errorf("%w: frame time %g needs more than %d sub-steps of %g",
		dynamo.ErrParameterBounds, frameDt, s.maxSteps, s.step)
}

func (s *Stepper) Step() float64     { return s.step }
func (s *Stepper) MaxSubSteps() int  { return s.maxSteps }
func (s *Stepper) Rollover() float64 { return s.rollover }
func (s *Stepper) Reset()            { s.rollover = 0 }

func (s *Stepper) Snapshot() StepperSnapshot {
	return StepperSnapshot{rollover: s.rollover}
}

func (s *Stepper) Restore(snap StepperSnapshot) {
	s.rollover = snap.rollover
}
