// Package experiment runs a scene headless for a fixed number of frames,
// replaying scheduled commands and recording the trajectory.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/springsim/internal/collision"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/scene"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/storage"
)

// StabilityRadius is the bound used by the stability metric.
const StabilityRadius = 1e3

type Config struct {
	Frames  int
	FrameDt float64
	// Every records one frame in Every. Zero or one records all of them.
	Every int
}

type Experiment struct {
	cfg      Config
	scene    scene.Scene
	schedule map[int]scene.Commands
}

func New(sc scene.Scene, cfg Config) (*Experiment, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: scene is required", dynamo.ErrParameterBounds)
	}
	if cfg.Frames < 0 || !(cfg.FrameDt >= 0) {
		return nil, fmt.Errorf("%w: frames %d, frame dt %g", dynamo.ErrParameterBounds, cfg.Frames, cfg.FrameDt)
	}
	if cfg.Every < 1 {
		cfg.Every = 1
	}
	return &Experiment{
		cfg:      cfg,
		scene:    sc,
		schedule: make(map[int]scene.Commands),
	}, nil
}

// Schedule queues cmd for the given zero-based frame, replacing any
// command already queued there.
func (e *Experiment) Schedule(frame int, cmd scene.Commands) {
	e.schedule[frame] = cmd
}

func (e *Experiment) Scene() scene.Scene { return e.scene }

type Result struct {
	Trajectory storage.Trajectory
	Metrics    map[string]float64
	Frames     int
	Steps      int
	Contacts   collision.Contacts
	Elapsed    time.Duration
}

// Run advances the scene frame by frame. The initial state is always
// recorded. On error the result holds everything up to the failed frame.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}
	res.Trajectory.Append(e.scene.Time(), e.scene.State())

	finish := func() *Result {
		s := e.scene.Simulation()
		res.Steps = s.Steps()
		res.Metrics = s.Metrics()
		res.Elapsed = time.Since(start)
		return res
	}

	for f := 0; f < e.cfg.Frames; f++ {
		select {
		case <-ctx.Done():
			return finish(), ctx.Err()
		default:
		}

		cmd := e.schedule[f]
		before := e.scene.Simulation().LastFrame()
		if err := e.scene.Update(e.cfg.FrameDt, cmd); err != nil {
			return finish(), fmt.Errorf("frame %d: %w", f, err)
		}
		res.Frames++

		if lf := e.scene.Simulation().LastFrame(); lf.Frame > 0 && (cmd.Reset || lf.Frame != before.Frame) {
			res.Contacts.Add(lf.Contacts)
		}
		if (f+1)%e.cfg.Every == 0 {
			res.Trajectory.Append(e.scene.Time(), e.scene.State())
		}
	}
	return finish(), nil
}

// AttachMetrics registers the diagnostics that apply to the system of s:
// energy and drift for Hamiltonian systems, strain for spring networks and
// stability for everything.
func AttachMetrics(s *sim.Simulation) {
	sys := s.System()
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		s.AddMetric(metrics.NewEnergy(h))
		s.AddMetric(metrics.NewEnergyDrift(sys))
	}
	if net, ok := sys.(metrics.SpringNetwork); ok {
		s.AddMetric(metrics.NewStrain(net))
	}
	s.AddMetric(metrics.NewStability(StabilityRadius))
}

// Metadata describes a finished run for storage.
func (r *Result) Metadata(sceneName, integrator string, step, fps float64) storage.RunMetadata {
	duration := 0.0
	if n := r.Trajectory.Len(); n > 0 {
		duration = r.Trajectory.Times[n-1] - r.Trajectory.Times[0]
	}
	return storage.RunMetadata{
		Scene:      sceneName,
		Integrator: integrator,
		Step:       step,
		FPS:        fps,
		Duration:   duration,
		Steps:      r.Steps,
		Metrics:    r.Metrics,
	}
}
