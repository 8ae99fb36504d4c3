package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is an orbiting orthographic camera looking at Target.
type Camera struct {
	Target     r3.Vec
	Yaw, Pitch float64
	// Scale is the number of dots per world unit.
	Scale float64
}

func NewCamera(target r3.Vec, scale float64) *Camera {
	return &Camera{Target: target, Scale: scale}
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dpitch))
}

func (c *Camera) Zoom(factor float64) {
	c.Scale = math.Max(0.5, math.Min(200, c.Scale*factor))
}

// View rotates p into camera space: x right, y up, z towards the viewer.
func (c *Camera) View(p r3.Vec) r3.Vec {
	p = r3.Sub(p, c.Target)
	p = r3.NewRotation(-c.Yaw, r3.Vec{Y: 1}).Rotate(p)
	return r3.NewRotation(-c.Pitch, r3.Vec{X: 1}).Rotate(p)
}

// Project maps a world point onto a w by h dot canvas centred on Target.
// It returns the dot coordinates and the camera-space depth.
func (c *Camera) Project(p r3.Vec, w, h int) (x, y int, depth float64) {
	v := c.View(p)
	x = w/2 + int(math.Round(v.X*c.Scale))
	y = h/2 - int(math.Round(v.Y*c.Scale))
	return x, y, v.Z
}
