package sim

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/collision"
	"github.com/san-kum/springsim/internal/dynamo"
)

// Simulation owns the dynamic state of one system and advances it frame by
// frame. It is not safe for concurrent use; see Group for running several
// simulations at once.
type Simulation struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	stepper    *Stepper
	validate   bool
	logger     *slog.Logger

	initial dynamo.State
	x       dynamo.State
	t       float64
	steps   int
	frames  int
	last    FrameStats

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sys dynamo.System, integrator dynamo.Integrator, x0 dynamo.State, opts Options) (*Simulation, error) {
	if sys == nil || integrator == nil {
		return nil, fmt.Errorf("%w: system and integrator are required", dynamo.ErrParameterBounds)
	}
	if err := x0.Validate(sys.NumParticles()); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("initial state: %w", dynamo.ErrInvalidState)
	}
	if p, ok := sys.(dynamo.Preparer); ok {
		if err := p.Ready(); err != nil {
			return nil, err
		}
	}

	step := opts.Step
	if step == 0 {
		step = DefaultStep
	}
	stepper, err := NewStepper(step)
	if err != nil {
		return nil, err
	}
	stepper.SetMaxSubSteps(opts.MaxSubSteps)

	return &Simulation{
		sys:        sys,
		integrator: integrator,
		stepper:    stepper,
		validate:   opts.ValidateState,
		logger:     opts.Logger,
		initial:    x0.Clone(),
		x:          x0.Clone(),
	}, nil
}

func (s *Simulation) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Advance moves the simulation forward by frameDt of wall time and returns
// a copy of the resulting state. The frame is all or nothing: on error the
// state, time and stepper rollover are exactly as before the call.
func (s *Simulation) Advance(frameDt float64, in Input) (dynamo.State, error) {
	f, err := s.prepare(frameDt, in)
	if err != nil {
		return s.x.Clone(), err
	}
	s.commit(f)
	return s.x.Clone(), nil
}

// pendingFrame is an integrated frame that has not been committed yet.
type pendingFrame struct {
	snap     StepperSnapshot
	frameDt  float64
	n        int
	dt       float64
	x        dynamo.State
	t        float64
	contacts collision.Contacts
	trail    []dynamo.State
	times    []float64
}

// prepare integrates one frame without touching the committed state. The
// stepper has already consumed the frame on success; abort gives it back.
func (s *Simulation) prepare(frameDt float64, in Input) (*pendingFrame, error) {
	if p, ok := s.sys.(dynamo.Preparer); ok {
		if err := p.Ready(); err != nil {
			return nil, err
		}
	}

	snap := s.stepper.Snapshot()
	n, dt, err := s.stepper.Plan(frameDt)
	if err != nil {
		return nil, err
	}

	f := &pendingFrame{snap: snap, frameDt: frameDt, n: n, dt: dt, x: s.x, t: s.t}
	// sub-step states are kept only when someone will observe them
	keep := len(s.metrics) > 0 || len(s.observers) > 0
	if keep {
		f.trail = make([]dynamo.State, 0, n)
		f.times = make([]float64, 0, n)
	}

	pins, _ := s.sys.(dynamo.Pinner)
	for i := 0; i < n; i++ {
		next := s.integrator.Integrate(s.sys, f.x, f.t, dt)
		f.contacts.Add(collision.Resolve(in.Obstacles, &next, pins, dt))

		if s.validate && !next.IsValid() {
			s.stepper.Restore(snap)
			serr := &dynamo.SimulationError{Step: s.steps + i, Time: f.t, Wrapped: dynamo.ErrInvalidState}
			if s.logger != nil {
				s.logger.Warn("frame rejected", "error", serr, "frame_dt", frameDt)
			}
			return nil, serr
		}

		f.x = next
		f.t += dt
		if keep {
			f.trail = append(f.trail, f.x)
			f.times = append(f.times, f.t)
		}
	}
	return f, nil
}

func (s *Simulation) abort(f *pendingFrame) {
	s.stepper.Restore(f.snap)
}

func (s *Simulation) commit(f *pendingFrame) {
	s.x = f.x
	s.t = f.t
	s.steps += f.n
	s.frames++
	s.last = FrameStats{
		Frame:    s.frames,
		FrameDt:  f.frameDt,
		SubSteps: f.n,
		StepDt:   f.dt,
		Time:     f.t,
		Rollover: s.stepper.Rollover(),
		Contacts: f.contacts,
	}

	for i, xs := range f.trail {
		for _, m := range s.metrics {
			m.Observe(xs, f.times[i])
		}
		for _, obs := range s.observers {
			obs.OnStep(xs, f.times[i])
		}
	}

	if s.logger != nil {
		s.logger.Debug("frame", "stats", s.last)
	}
}

// Reset restores the construction positions with zero velocities and
// clears time, rollover and metrics.
func (s *Simulation) Reset() {
	x := s.initial.Clone()
	for i := range x.Velocities {
		x.Velocities[i] = r3.Vec{}
	}
	s.x = x
	s.t = 0
	s.steps = 0
	s.frames = 0
	s.last = FrameStats{}
	s.stepper.Reset()
	for _, m := range s.metrics {
		m.Reset()
	}
}

// SetState replaces the current state, for example after an interactive
// drag. Time and rollover are unchanged.
func (s *Simulation) SetState(x dynamo.State) error {
	if err := x.Validate(s.sys.NumParticles()); err != nil {
		return err
	}
	s.x = x.Clone()
	return nil
}

func (s *Simulation) State() dynamo.State           { return s.x.Clone() }
func (s *Simulation) Initial() dynamo.State         { return s.initial.Clone() }
func (s *Simulation) Time() float64                 { return s.t }
func (s *Simulation) Steps() int                    { return s.steps }
func (s *Simulation) System() dynamo.System         { return s.sys }
func (s *Simulation) Integrator() dynamo.Integrator { return s.integrator }
func (s *Simulation) Stepper() *Stepper             { return s.stepper }
func (s *Simulation) LastFrame() FrameStats         { return s.last }

// Metrics returns the current value of every registered metric by name.
func (s *Simulation) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
