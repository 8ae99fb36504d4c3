package scene

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// Path moves an obstacle over time. Advance is called once per simulated
// frame; Position is the obstacle center for the next frame.
type Path interface {
	Advance(dt float64) r3.Vec
	Position() r3.Vec
	Reset()
}

// CosinePath oscillates along z: origin + (0, 0, A*cos(w*t) - A). It starts
// at origin and swings out to origin.Z - 2A.
type CosinePath struct {
	origin    r3.Vec
	amplitude float64
	frequency float64
	t         float64
}

func NewCosinePath(origin r3.Vec, amplitude, frequency float64) *CosinePath {
	return &CosinePath{origin: origin, amplitude: amplitude, frequency: frequency}
}

// At returns the position at time t without changing the path clock.
func (p *CosinePath) At(t float64) r3.Vec {
	return r3.Add(p.origin, r3.Vec{Z: p.amplitude*math.Cos(p.frequency*t) - p.amplitude})
}

func (p *CosinePath) Advance(dt float64) r3.Vec {
	p.t += dt
	return p.At(p.t)
}

func (p *CosinePath) Position() r3.Vec { return p.At(p.t) }
func (p *CosinePath) Reset()           { p.t = 0 }

// EasedPath travels back and forth between two points, easing each leg
// with fn. One leg takes half the period.
type EasedPath struct {
	from, to r3.Vec
	leg      float32
	fn       ease.TweenFunc
	tween    *gween.Tween
	forward  bool
	progress float64
}

func NewEasedPath(from, to r3.Vec, period float64, fn ease.TweenFunc) *EasedPath {
	if fn == nil {
		fn = ease.InOutSine
	}
	p := &EasedPath{from: from, to: to, leg: float32(period / 2), fn: fn}
	p.Reset()
	return p
}

func (p *EasedPath) Advance(dt float64) r3.Vec {
	v, done := p.tween.Update(float32(dt))
	p.progress = float64(v)
	if done {
		p.forward = !p.forward
		p.tween = p.nextLeg()
	}
	return p.Position()
}

func (p *EasedPath) Position() r3.Vec {
	return r3.Add(p.from, r3.Scale(p.progress, r3.Sub(p.to, p.from)))
}

func (p *EasedPath) Reset() {
	p.forward = true
	p.progress = 0
	p.tween = p.nextLeg()
}

func (p *EasedPath) nextLeg() *gween.Tween {
	if p.forward {
		return gween.New(0, 1, p.leg, p.fn)
	}
	return gween.New(1, 0, p.leg, p.fn)
}
