package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
)

// ConvergenceResult holds the final orbit error for each step size and the
// slope of log(error) against log(step).
type ConvergenceResult struct {
	Kind      integrators.Kind
	Steps     []float64
	Errors    []float64
	Order     float64
	Intercept float64
}

// Convergence runs OrbitError at every step size and fits the empirical
// order of accuracy. At least two distinct step sizes are required.
func Convergence(kind integrators.Kind, steps []float64, duration float64) (ConvergenceResult, error) {
	if len(steps) < 2 {
		return ConvergenceResult{}, fmt.Errorf("%w: need at least two step sizes, got %d", dynamo.ErrParameterBounds, len(steps))
	}

	sorted := make([]float64, len(steps))
	copy(sorted, steps)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if floats.Min(sorted) <= 0 || sorted[0] == sorted[len(sorted)-1] {
		return ConvergenceResult{}, fmt.Errorf("%w: step sizes must be positive and distinct", dynamo.ErrParameterBounds)
	}

	res := ConvergenceResult{Kind: kind, Steps: sorted, Errors: make([]float64, len(sorted))}
	logStep := make([]float64, 0, len(sorted))
	logErr := make([]float64, 0, len(sorted))
	for i, h := range sorted {
		orbit, err := OrbitError(kind, h, duration)
		if err != nil {
			return res, fmt.Errorf("step %g: %w", h, err)
		}
		res.Errors[i] = orbit.FinalError
		if orbit.FinalError > 0 {
			logStep = append(logStep, math.Log(h))
			logErr = append(logErr, math.Log(orbit.FinalError))
		}
	}
	if len(logStep) < 2 {
		return res, fmt.Errorf("%w: errors vanished, nothing to fit", dynamo.ErrParameterBounds)
	}

	res.Intercept, res.Order = stat.LinearRegression(logStep, logErr, nil, false)
	return res, nil
}

// Ratios returns the error reduction between consecutive step sizes.
func (r ConvergenceResult) Ratios() []float64 {
	if len(r.Errors) < 2 {
		return nil
	}
	out := make([]float64, len(r.Errors)-1)
	for i := range out {
		if r.Errors[i+1] == 0 {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = r.Errors[i] / r.Errors[i+1]
	}
	return out
}
