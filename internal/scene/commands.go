package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

// Commands are the user inputs for one frame. The zero value does nothing.
// Scenes ignore commands that do not apply to them.
type Commands struct {
	Reset       bool
	TogglePause bool
	CyclePins   bool
	ToggleWind  bool
	ToggleBall  bool

	// WindStrength and Gravity replace the current value when non-nil.
	WindStrength *float64
	Gravity      *r3.Vec

	// Drag moves one particle before the frame is simulated.
	Drag *Drag
}

// Drag displaces a particle by Offset and adds Offset to its velocity.
type Drag struct {
	Particle int
	Offset   r3.Vec
}

// Empty reports whether the commands would change nothing.
func (c Commands) Empty() bool {
	return c == Commands{}
}

func applyDrag(s *sim.Simulation, d Drag) error {
	x := s.State()
	if d.Particle < 0 || d.Particle >= x.Len() {
		return fmt.Errorf("%w: drag particle %d", dynamo.ErrIndexOutOfRange, d.Particle)
	}
	x.Positions[d.Particle] = r3.Add(x.Positions[d.Particle], d.Offset)
	x.Velocities[d.Particle] = r3.Add(x.Velocities[d.Particle], d.Offset)
	return s.SetState(x)
}

// springControls is the runtime surface shared by spring scenes.
type springControls interface {
	SetWind(bool)
	WindEnabled() bool
	SetWindStrength(float64)
	SetGravity(r3.Vec)
}

func applyForces(sys springControls, cmd Commands) {
	if cmd.ToggleWind {
		sys.SetWind(!sys.WindEnabled())
	}
	if cmd.WindStrength != nil {
		sys.SetWindStrength(*cmd.WindStrength)
	}
	if cmd.Gravity != nil {
		sys.SetGravity(*cmd.Gravity)
	}
}
