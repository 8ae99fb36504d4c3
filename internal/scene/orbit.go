package scene

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// Orbit runs the circular reference problem once per integrator so their
// drift away from the unit circle can be compared frame by frame.
type Orbit struct {
	sys    *physics.Circular
	kinds  []integrators.Kind
	group  *sim.Group
	paused bool
}

func NewOrbit(kinds []integrators.Kind, opts sim.Options) (*Orbit, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("orbit: at least one integrator required")
	}
	sys := physics.NewCircular()
	x0 := dynamo.NewState(1)
	x0.Positions[0] = r3.Vec{X: 1}

	o := &Orbit{sys: sys, kinds: kinds, group: sim.NewGroup()}
	for _, kind := range kinds {
		integ, err := integrators.New(kind)
		if err != nil {
			return nil, err
		}
		s, err := sim.New(sys, integ, x0, opts)
		if err != nil {
			return nil, fmt.Errorf("orbit %s: %w", kind, err)
		}
		o.group.Add(s)
	}
	return o, nil
}

func (o *Orbit) Name() string { return "orbit" }

func (o *Orbit) Update(frameDt float64, cmd Commands) error {
	if cmd.Reset {
		o.Reset()
	}
	if cmd.TogglePause {
		o.paused = !o.paused
	}
	if o.paused {
		return nil
	}
	_, err := o.group.Advance(context.Background(), frameDt, sim.Input{})
	return err
}

// State returns the state of the first integrator's simulation.
func (o *Orbit) State() dynamo.State            { return o.Simulation().State() }
func (o *Orbit) Time() float64                  { return o.Simulation().Time() }
func (o *Orbit) Simulation() *sim.Simulation    { return o.group.Simulations()[0] }
func (o *Orbit) Simulations() []*sim.Simulation { return o.group.Simulations() }
func (o *Orbit) Kinds() []integrators.Kind      { return o.kinds }
func (o *Orbit) Paused() bool                   { return o.paused }
func (o *Orbit) Reset()                         { o.group.Reset() }

// Positions returns the current particle position of every simulation.
func (o *Orbit) Positions() []r3.Vec {
	sims := o.group.Simulations()
	out := make([]r3.Vec, len(sims))
	for i, s := range sims {
		out[i] = s.State().Positions[0]
	}
	return out
}

// Errors returns each simulation's distance from the exact solution.
func (o *Orbit) Errors() []float64 {
	sims := o.group.Simulations()
	out := make([]float64, len(sims))
	for i, s := range sims {
		out[i] = r3.Norm(r3.Sub(s.State().Positions[0], o.sys.Exact(s.Time())))
	}
	return out
}
