package scene

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/collision"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// PinLevel is how many top corners of the cloth are pinned.
type PinLevel int

const (
	PinNone PinLevel = iota
	PinOne
	PinBoth
)

func (l PinLevel) String() string {
	switch l {
	case PinNone:
		return "none"
	case PinOne:
		return "one"
	case PinBoth:
		return "both"
	}
	return fmt.Sprintf("PinLevel(%d)", int(l))
}

// Cloth is a square sheet of particles hanging from its top corners, with
// a moving ball and a ground plane to collide with.
//
// Particles are laid out column-major: the particle at (row, col) has index
// row + col*size and starts at (col*w/size, -row*w/size, 0).
type Cloth struct {
	cfg     config.ClothConfig
	size    int
	sys     *physics.PendulumSystem
	sim     *sim.Simulation
	corners [2]int
	pins    PinLevel
	ball    collision.Sphere
	path    Path
	ground  collision.Ground
	paused  bool
}

func NewCloth(cfg config.ClothConfig, integ dynamo.Integrator, opts sim.Options) (*Cloth, error) {
	if cfg.Size < 2 {
		return nil, fmt.Errorf("cloth: %w: size %d", dynamo.ErrParameterBounds, cfg.Size)
	}
	n := cfg.Size
	spacing := cfg.Width / float64(n)

	c := &Cloth{
		cfg:  cfg,
		size: n,
		sys:  physics.NewPendulumSystem(cfg.Gravity, cfg.Drag),
	}
	c.sys.SetWind(cfg.Wind)
	c.sys.SetWindStrength(cfg.WindStrength)

	x0 := dynamo.NewState(n * n)
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			idx, err := c.sys.AddParticle(cfg.Mass)
			if err != nil {
				return nil, fmt.Errorf("cloth: %w", err)
			}
			if idx != c.IndexOf(row, col) {
				return nil, fmt.Errorf("cloth: particle %d added out of order", idx)
			}
			x0.Positions[idx] = r3.Vec{X: float64(col) * spacing, Y: -float64(row) * spacing}
		}
	}
	if err := c.addSprings(spacing); err != nil {
		return nil, fmt.Errorf("cloth: %w", err)
	}
	c.sys.BuildAdjacency()

	c.corners = [2]int{c.IndexOf(0, 0), c.IndexOf(0, n-1)}
	c.pinBoth()

	c.ball = collision.Sphere{
		Center:  cfg.Ball.Start,
		Radius:  cfg.Ball.Radius,
		Epsilon: cfg.Ball.Epsilon,
		Enabled: cfg.Ball.Enabled,
	}
	if cfg.Ball.Path == "eased" {
		c.path = NewEasedPath(cfg.Ball.Start, cfg.Ball.Target, cfg.Ball.Period, ease.InOutSine)
	} else {
		c.path = NewCosinePath(cfg.Ball.Start, cfg.Ball.Amplitude, cfg.Ball.Frequency)
	}
	c.ground = collision.Ground{Height: cfg.Ground.Height, Epsilon: cfg.Ground.Epsilon}

	s, err := sim.New(c.sys, integ, x0, opts)
	if err != nil {
		return nil, fmt.Errorf("cloth: %w", err)
	}
	c.sim = s
	return c, nil
}

// addSprings connects structural neighbors, both diagonals of every cell
// and flex springs that skip one particle.
func (c *Cloth) addSprings(spacing float64) error {
	n := c.size
	k := c.cfg.Stiffness
	shear := math.Sqrt2 * spacing
	flexK := k * c.cfg.FlexFactor

	link := func(r1, c1, r2, c2 int, rest, stiffness float64) error {
		if r2 >= n || c2 >= n || c2 < 0 {
			return nil
		}
		return c.sys.AddSpring(c.IndexOf(r1, c1), c.IndexOf(r2, c2), rest, stiffness)
	}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			for _, err := range []error{
				link(row, col, row, col+1, spacing, k),
				link(row, col, row+1, col, spacing, k),
				link(row, col, row+1, col+1, shear, k),
				link(row, col, row+1, col-1, shear, k),
				link(row, col, row, col+2, 2*spacing, flexK),
				link(row, col, row+2, col, 2*spacing, flexK),
			} {
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Cloth) IndexOf(row, col int) int { return row + col*c.size }

func (c *Cloth) Name() string { return "cloth" }

// Update applies cmd and then advances one frame. Commands are applied in
// field order: reset, pause, pins, forces, ball, drag.
func (c *Cloth) Update(frameDt float64, cmd Commands) error {
	if cmd.Reset {
		c.Reset()
	}
	if cmd.TogglePause {
		c.paused = !c.paused
	}
	if cmd.CyclePins {
		if err := c.CyclePins(); err != nil {
			return err
		}
	}
	applyForces(c.sys, cmd)
	if cmd.ToggleBall {
		c.ball.Enabled = !c.ball.Enabled
	}
	if cmd.Drag != nil {
		if err := applyDrag(c.sim, *cmd.Drag); err != nil {
			return err
		}
	}
	if c.paused {
		return nil
	}

	// the ball runs on simulated time, not wall time
	before := c.sim.Time()
	if _, err := c.sim.Advance(frameDt, sim.Input{Obstacles: c.Obstacles()}); err != nil {
		return err
	}
	c.ball.Center = c.path.Advance(c.sim.Time() - before)
	return nil
}

// Obstacles returns the obstacle snapshot for the next frame. The ground
// only catches the cloth once at least one corner has been released.
func (c *Cloth) Obstacles() collision.Obstacles {
	g := c.ground
	g.Enabled = c.pins < PinBoth
	return collision.Obstacles{Sphere: c.ball, Ground: g}
}

// CyclePins steps through both corners pinned, the far corner only, and
// none. Going from none back to both snaps the corners to their starting
// positions at rest.
func (c *Cloth) CyclePins() error {
	switch c.pins {
	case PinBoth:
		c.pins = PinOne
		return c.sys.ReleaseParticle(c.corners[0])
	case PinOne:
		c.pins = PinNone
		return c.sys.ReleaseParticle(c.corners[1])
	}

	x := c.sim.State()
	initial := c.sim.Initial()
	for _, idx := range c.corners {
		x.Positions[idx] = initial.Positions[idx]
		x.Velocities[idx] = r3.Vec{}
	}
	if err := c.sim.SetState(x); err != nil {
		return err
	}
	c.pinBoth()
	return nil
}

func (c *Cloth) pinBoth() {
	for _, idx := range c.corners {
		// corners are always in range
		_ = c.sys.FixParticle(idx)
	}
	c.pins = PinBoth
}

// Reset restores the configured cloth: particles at rest in their starting
// grid, both corners pinned, the ball back at its start and the configured
// gravity, drag and wind. The pause state is kept.
func (c *Cloth) Reset() {
	c.sim.Reset()
	c.pinBoth()
	c.path.Reset()
	c.ball.Center = c.path.Position()
	c.ball.Enabled = c.cfg.Ball.Enabled
	c.sys.SetGravity(c.cfg.Gravity)
	c.sys.SetDrag(c.cfg.Drag)
	c.sys.SetWind(c.cfg.Wind)
	c.sys.SetWindStrength(c.cfg.WindStrength)
}

func (c *Cloth) State() dynamo.State             { return c.sim.State() }
func (c *Cloth) Time() float64                   { return c.sim.Time() }
func (c *Cloth) Simulation() *sim.Simulation     { return c.sim }
func (c *Cloth) System() *physics.PendulumSystem { return c.sys }
func (c *Cloth) Size() int                       { return c.size }
func (c *Cloth) Corners() [2]int                 { return c.corners }
func (c *Cloth) Pins() PinLevel                  { return c.pins }
func (c *Cloth) Ball() collision.Sphere          { return c.ball }
func (c *Cloth) Paused() bool                    { return c.paused }
