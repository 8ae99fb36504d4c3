package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates a state that does not match its system.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrIndexOutOfRange indicates a particle index outside the system.
	ErrIndexOutOfRange = errors.New("dynamo: particle index out of range")

	// ErrInvalidSpring indicates a spring with bad endpoints or coefficients.
	ErrInvalidSpring = errors.New("dynamo: invalid spring")

	// ErrStaleAdjacency indicates topology changed after the spring
	// adjacency was last built.
	ErrStaleAdjacency = errors.New("dynamo: spring adjacency is stale, rebuild before stepping")
)

// SimulationError wraps an error with the sub-step that produced it.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
