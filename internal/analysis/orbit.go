package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// OrbitResult describes how far an integrator strays from the unit circle.
type OrbitResult struct {
	Kind        integrators.Kind
	Step        float64
	Duration    float64
	Steps       int
	MaxError    float64
	FinalError  float64
	FinalRadius float64
}

// OrbitError integrates the circular reference problem from (1, 0, 0) for
// duration with a fixed step and compares every step to the exact solution.
func OrbitError(kind integrators.Kind, step, duration float64) (OrbitResult, error) {
	if !(step > 0) || !(duration > 0) {
		return OrbitResult{}, fmt.Errorf("%w: step %g, duration %g", dynamo.ErrParameterBounds, step, duration)
	}
	integ, err := integrators.New(kind)
	if err != nil {
		return OrbitResult{}, err
	}

	sys := physics.NewCircular()
	x0 := dynamo.NewState(1)
	x0.Positions[0] = r3.Vec{X: 1}

	s, err := sim.New(sys, integ, x0, sim.Options{Step: step})
	if err != nil {
		return OrbitResult{}, err
	}

	res := OrbitResult{Kind: kind, Step: step, Duration: duration}
	n := int(math.Round(duration / step))
	x := x0
	for i := 0; i < n; i++ {
		x, err = s.Advance(step, sim.Input{})
		if err != nil {
			return res, err
		}
		e := r3.Norm(r3.Sub(x.Positions[0], sys.Exact(s.Time())))
		res.MaxError = math.Max(res.MaxError, e)
		res.FinalError = e
	}
	res.Steps = s.Steps()
	res.FinalRadius = r3.Norm(x.Positions[0])
	return res, nil
}
