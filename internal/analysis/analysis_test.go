package analysis

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

func TestOrbitError_RK4BeatsEuler(t *testing.T) {
	euler, err := OrbitError(integrators.KindEuler, 0.01, 2*math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	rk4, err := OrbitError(integrators.KindRK4, 0.01, 2*math.Pi)
	if err != nil {
		t.Fatal(err)
	}

	if rk4.FinalError*10 > euler.FinalError {
		t.Errorf("rk4 final error %.3e vs euler %.3e", rk4.FinalError, euler.FinalError)
	}
	if euler.FinalRadius <= 1 {
		t.Errorf("euler should spiral outward, radius %v", euler.FinalRadius)
	}
	if euler.Steps != 628 {
		t.Errorf("steps = %d, want 628", euler.Steps)
	}
	if euler.MaxError < euler.FinalError {
		t.Error("max error below final error")
	}
}

func TestOrbitError_InvalidArgs(t *testing.T) {
	if _, err := OrbitError(integrators.KindRK4, 0, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if _, err := OrbitError(integrators.Kind(7), 0.1, 1); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestConvergence_Order(t *testing.T) {
	tests := []struct {
		kind     integrators.Kind
		min, max float64
	}{
		{integrators.KindEuler, 0.8, 1.2},
		{integrators.KindTrapezoidal, 1.8, 2.2},
		{integrators.KindRK4, 3.6, 4.4},
	}
	steps := []float64{0.05, 0.1, 0.025}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			res, err := Convergence(tt.kind, steps, 2*math.Pi)
			if err != nil {
				t.Fatal(err)
			}
			if res.Order < tt.min || res.Order > tt.max {
				t.Errorf("order = %.3f, want within [%.1f, %.1f]", res.Order, tt.min, tt.max)
			}
			if res.Steps[0] != 0.1 {
				t.Errorf("steps not sorted largest first: %v", res.Steps)
			}
			if len(res.Ratios()) != 2 {
				t.Errorf("ratios: %v", res.Ratios())
			}
		})
	}
}

func TestConvergence_InvalidSteps(t *testing.T) {
	for _, steps := range [][]float64{{0.1}, {0.1, 0.1}, {0.1, -0.05}} {
		if _, err := Convergence(integrators.KindEuler, steps, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("steps %v: expected ErrParameterBounds, got %v", steps, err)
		}
	}
}

func TestLyapunovExponent_CircularIsNotChaotic(t *testing.T) {
	x0 := dynamo.NewState(1)
	x0.Positions[0] = r3.Vec{X: 1}
	lambda := LyapunovExponent(physics.NewCircular(), integrators.NewRK4(), x0, 0.01, 20, 1e-6)
	if lambda > 0.05 {
		t.Errorf("rotation should not separate trajectories, lambda = %v", lambda)
	}
}

func TestLyapunovExponent_AllPinned(t *testing.T) {
	sys := physics.NewPendulumSystem(r3.Vec{Y: -1}, 0)
	sys.AddParticle(1)
	sys.FixParticle(0)
	sys.BuildAdjacency()
	if got := LyapunovExponent(sys, integrators.NewRK4(), dynamo.NewState(1), 0.01, 1, 1e-6); got != 0 {
		t.Errorf("fully pinned system: got %v", got)
	}
}
