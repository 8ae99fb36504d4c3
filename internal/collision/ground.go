package collision

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Ground is the horizontal plane y = Height.
type Ground struct {
	Height  float64
	Epsilon float64
	Enabled bool
}

func (g Ground) Mode() VelocityMode { return VelocityOverride }

// Floor returns the lowest allowed particle height.
func (g Ground) Floor() float64 { return g.Height + g.Epsilon }

func (g Ground) Apply(x *dynamo.State, pins dynamo.Pinner, dt float64) int {
	if !g.Enabled {
		return 0
	}
	floor := g.Floor()
	n := 0
	for i, p := range x.Positions {
		if pinned(pins, i) || p.Y >= floor {
			continue
		}
		np := r3.Vec{X: p.X, Y: floor, Z: p.Z}
		x.Positions[i] = np
		x.Velocities[i] = g.Mode().apply(x.Velocities[i], r3.Sub(np, p), dt)
		n++
	}
	return n
}
