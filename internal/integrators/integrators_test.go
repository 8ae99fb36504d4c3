package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// oscillator is a unit harmonic oscillator along x with acceleration -p.
type oscillator struct{}

func (o *oscillator) NumParticles() int { return 1 }

func (o *oscillator) ComputeDerivative(x dynamo.State, _ float64) dynamo.State {
	dx := dynamo.NewState(1)
	dx.Positions[0] = x.Velocities[0]
	dx.Velocities[0] = r3.Scale(-1, x.Positions[0])
	return dx
}

// clock records every time at which it was sampled.
type clock struct {
	times []float64
}

func (c *clock) NumParticles() int { return 1 }

func (c *clock) ComputeDerivative(x dynamo.State, t float64) dynamo.State {
	c.times = append(c.times, t)
	return dynamo.NewState(x.Len())
}

func oscillatorError(integ dynamo.Integrator, dt, duration float64) float64 {
	sys := &oscillator{}
	x := dynamo.NewState(1)
	x.Positions[0] = r3.Vec{X: 1}
	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		x = integ.Integrate(sys, x, float64(i)*dt, dt)
	}
	return math.Abs(x.Positions[0].X - math.Cos(float64(steps)*dt))
}

func circularError(integ dynamo.Integrator, dt float64) float64 {
	sys := physics.NewCircular()
	x := dynamo.NewState(1)
	x.Positions[0] = r3.Vec{X: 1}
	steps := int(math.Round(2 * math.Pi / dt))
	for i := 0; i < steps; i++ {
		x = integ.Integrate(sys, x, float64(i)*dt, dt)
	}
	return r3.Norm(r3.Sub(x.Positions[0], sys.Exact(float64(steps)*dt)))
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	if err := oscillatorError(integ, 0.01, 1.0); err > 1e-9 {
		t.Errorf("position error too large: %.3e", err)
	}
}

func TestCircularRK4BeatsEuler(t *testing.T) {
	dt := 0.01
	eulerErr := circularError(NewEuler(), dt)
	trapErr := circularError(NewTrapezoidal(), dt)
	rk4Err := circularError(NewRK4(), dt)

	if rk4Err*10 > eulerErr {
		t.Errorf("rk4 error %.3e should be at least 10x smaller than euler %.3e", rk4Err, eulerErr)
	}
	if trapErr >= eulerErr {
		t.Errorf("trapezoidal error %.3e should be below euler %.3e", trapErr, eulerErr)
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name     string
		integ    dynamo.Integrator
		min, max float64
	}{
		{"euler", NewEuler(), 1.5, 2.5},
		{"trapezoidal", NewTrapezoidal(), 3, 5},
		{"rk4", NewRK4(), 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse := oscillatorError(tt.integ, 0.1, 1.0)
			fine := oscillatorError(tt.integ, 0.05, 1.0)
			ratio := coarse / fine
			if ratio < tt.min || ratio > tt.max {
				t.Errorf("halving dt reduced error by %.2f, want within [%.1f, %.1f]", ratio, tt.min, tt.max)
			}
		})
	}
}

func TestEulerSamplesEndOfStep(t *testing.T) {
	c := &clock{}
	NewEuler().Integrate(c, dynamo.NewState(1), 2.0, 0.5)
	if len(c.times) != 1 || c.times[0] != 2.5 {
		t.Errorf("euler sampled at %v, want [2.5]", c.times)
	}
}

func TestSampleTimes(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
		want  []float64
	}{
		{"trapezoidal", NewTrapezoidal(), []float64{1, 1.5}},
		{"rk4", NewRK4(), []float64{1, 1.25, 1.25, 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clock{}
			tt.integ.Integrate(c, dynamo.NewState(1), 1.0, 0.5)
			if len(c.times) != len(tt.want) {
				t.Fatalf("got %d evaluations, want %d", len(c.times), len(tt.want))
			}
			for i := range tt.want {
				if c.times[i] != tt.want[i] {
					t.Errorf("evaluation %d at t=%v, want %v", i, c.times[i], tt.want[i])
				}
			}
		})
	}
}

func TestIntegrateIsPure(t *testing.T) {
	for _, kind := range Kinds() {
		integ, err := New(kind)
		if err != nil {
			t.Fatal(err)
		}
		x := dynamo.NewState(1)
		x.Positions[0] = r3.Vec{X: 1, Y: 0.5}
		x.Velocities[0] = r3.Vec{Z: 2}
		before := x.Clone()

		a := integ.Integrate(&oscillator{}, x, 0, 0.1)
		b := integ.Integrate(&oscillator{}, x, 0, 0.1)

		if x.Positions[0] != before.Positions[0] || x.Velocities[0] != before.Velocities[0] {
			t.Errorf("%s mutated its input", kind)
		}
		if a.Positions[0] != b.Positions[0] || a.Velocities[0] != b.Velocities[0] {
			t.Errorf("%s is not deterministic", kind)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"euler", KindEuler, false},
		{"Trapezoidal", KindTrapezoidal, false},
		{"heun", KindTrapezoidal, false},
		{" RK4 ", KindRK4, false},
		{"verlet", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if KindRK4.String() != "rk4" || Kind(9).String() != "Kind(9)" {
		t.Error("unexpected Kind.String output")
	}
	if _, err := New(Kind(9)); err == nil {
		t.Error("expected error for unknown kind")
	}
}
