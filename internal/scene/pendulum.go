package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// Pendulum is a chain of springs hanging from its first particle.
type Pendulum struct {
	cfg    config.PendulumConfig
	sys    *physics.PendulumSystem
	sim    *sim.Simulation
	pinned bool
	paused bool
}

func NewPendulum(cfg config.PendulumConfig, integ dynamo.Integrator, opts sim.Options) (*Pendulum, error) {
	sys := physics.NewPendulumSystem(cfg.Gravity, cfg.Drag)
	sys.SetWind(cfg.Wind)
	sys.SetWindStrength(cfg.WindStrength)

	x0 := dynamo.NewState(len(cfg.Points))
	for i, p := range cfg.Points {
		if _, err := sys.AddParticle(cfg.Mass); err != nil {
			return nil, fmt.Errorf("pendulum: %w", err)
		}
		x0.Positions[i] = p
		if i > 0 {
			if err := sys.AddSpring(i-1, i, cfg.RestLength, cfg.Stiffness); err != nil {
				return nil, fmt.Errorf("pendulum: %w", err)
			}
		}
	}
	if err := sys.FixParticle(0); err != nil {
		return nil, fmt.Errorf("pendulum: %w", err)
	}
	sys.BuildAdjacency()

	s, err := sim.New(sys, integ, x0, opts)
	if err != nil {
		return nil, fmt.Errorf("pendulum: %w", err)
	}
	return &Pendulum{cfg: cfg, sys: sys, sim: s, pinned: true}, nil
}

func (p *Pendulum) Name() string { return "pendulum" }

func (p *Pendulum) Update(frameDt float64, cmd Commands) error {
	if cmd.Reset {
		p.Reset()
	}
	if cmd.TogglePause {
		p.paused = !p.paused
	}
	if cmd.CyclePins {
		if err := p.togglePin(); err != nil {
			return err
		}
	}
	applyForces(p.sys, cmd)
	if cmd.Drag != nil {
		if err := applyDrag(p.sim, *cmd.Drag); err != nil {
			return err
		}
	}
	if p.paused {
		return nil
	}
	_, err := p.sim.Advance(frameDt, sim.Input{})
	return err
}

// togglePin releases the anchor, or re-pins it at its starting position.
func (p *Pendulum) togglePin() error {
	if p.pinned {
		p.pinned = false
		return p.sys.ReleaseParticle(0)
	}
	x := p.sim.State()
	x.Positions[0] = p.sim.Initial().Positions[0]
	x.Velocities[0] = r3.Vec{}
	if err := p.sim.SetState(x); err != nil {
		return err
	}
	p.pinned = true
	return p.sys.FixParticle(0)
}

func (p *Pendulum) State() dynamo.State             { return p.sim.State() }
func (p *Pendulum) Time() float64                   { return p.sim.Time() }
func (p *Pendulum) Simulation() *sim.Simulation     { return p.sim }
func (p *Pendulum) System() *physics.PendulumSystem { return p.sys }
func (p *Pendulum) Pinned() bool                    { return p.pinned }
func (p *Pendulum) Paused() bool                    { return p.paused }

// Reset restores the configured state: anchor pinned, configured forces
// and the starting positions at rest.
func (p *Pendulum) Reset() {
	p.sim.Reset()
	// the anchor is always in range
	_ = p.sys.FixParticle(0)
	p.pinned = true
	p.sys.SetGravity(p.cfg.Gravity)
	p.sys.SetDrag(p.cfg.Drag)
	p.sys.SetWind(p.cfg.Wind)
	p.sys.SetWindStrength(p.cfg.WindStrength)
}
