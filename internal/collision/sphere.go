package collision

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

// centerTolerance is the distance below which a particle counts as sitting
// on the sphere center and is pushed out along +Y.
const centerTolerance = 1e-12

type Sphere struct {
	Center  r3.Vec
	Radius  float64
	Epsilon float64
	Enabled bool
}

func (s Sphere) Mode() VelocityMode { return VelocityAdditive }

// Contact returns the surface distance r+epsilon.
func (s Sphere) Contact() float64 { return s.Radius + s.Epsilon }

// Project returns p moved onto the contact shell and whether it moved.
func (s Sphere) Project(p r3.Vec) (r3.Vec, bool) {
	d := r3.Sub(p, s.Center)
	dist := r3.Norm(d)
	if dist >= s.Contact() {
		return p, false
	}
	dir := r3.Vec{Y: 1}
	if dist > centerTolerance {
		dir = r3.Scale(1/dist, d)
	}
	return r3.Add(s.Center, r3.Scale(s.Contact(), dir)), true
}

// Apply corrects every free particle inside the shell and returns how many
// were moved.
func (s Sphere) Apply(x *dynamo.State, pins dynamo.Pinner, dt float64) int {
	if !s.Enabled {
		return 0
	}
	n := 0
	for i, p := range x.Positions {
		if pinned(pins, i) {
			continue
		}
		np, hit := s.Project(p)
		if !hit {
			continue
		}
		x.Positions[i] = np
		x.Velocities[i] = s.Mode().apply(x.Velocities[i], r3.Sub(np, p), dt)
		n++
	}
	return n
}
