package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/collision"
	"github.com/san-kum/springsim/internal/dynamo"
)

type pinSet map[int]bool

func (p pinSet) IsFixed(i int) bool { return p[i] }

func stateAt(points ...r3.Vec) dynamo.State {
	x := dynamo.NewState(len(points))
	copy(x.Positions, points)
	return x
}

var _ = Describe("Sphere", func() {
	var sphere collision.Sphere

	BeforeEach(func() {
		sphere = collision.Sphere{Center: r3.Vec{X: 1, Y: 2, Z: 3}, Radius: 2, Epsilon: 0.1, Enabled: true}
	})

	It("pushes penetrating particles onto the contact shell", func() {
		x := stateAt(r3.Vec{X: 1.5, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 3, Z: 3.5})
		Expect(sphere.Apply(&x, nil, 0.01)).To(Equal(2))
		for _, p := range x.Positions {
			Expect(r3.Norm(r3.Sub(p, sphere.Center))).To(BeNumerically(">=", sphere.Contact()-1e-12))
		}
	})

	It("adds the correction to the velocity", func() {
		x := stateAt(r3.Vec{X: 2, Y: 2, Z: 3})
		x.Velocities[0] = r3.Vec{Y: 5}
		sphere.Apply(&x, nil, 0.5)
		// moved from x=2 to x=3.1 over dt=0.5
		Expect(x.Velocities[0].X).To(BeNumerically("~", 2.2, 1e-12))
		Expect(x.Velocities[0].Y).To(BeNumerically("~", 5, 1e-12))
	})

	It("pushes a particle at the center along +Y", func() {
		x := stateAt(sphere.Center)
		sphere.Apply(&x, nil, 0.01)
		Expect(x.Positions[0].Y).To(BeNumerically("~", sphere.Center.Y+sphere.Contact(), 1e-12))
		Expect(x.Positions[0].X).To(Equal(sphere.Center.X))
		Expect(x.IsValid()).To(BeTrue())
	})

	It("leaves outside and pinned particles alone", func() {
		outside := r3.Vec{X: 10}
		inside := r3.Vec{X: 1.2, Y: 2, Z: 3}
		x := stateAt(outside, inside)
		Expect(sphere.Apply(&x, pinSet{1: true}, 0.01)).To(BeZero())
		Expect(x.Positions[0]).To(Equal(outside))
		Expect(x.Positions[1]).To(Equal(inside))
	})

	It("does nothing while disabled", func() {
		sphere.Enabled = false
		x := stateAt(sphere.Center)
		Expect(sphere.Apply(&x, nil, 0.01)).To(BeZero())
		Expect(x.Positions[0]).To(Equal(sphere.Center))
	})

	It("reports additive mode", func() {
		Expect(sphere.Mode()).To(Equal(collision.VelocityAdditive))
	})
})

var _ = Describe("Ground", func() {
	var ground collision.Ground

	BeforeEach(func() {
		ground = collision.Ground{Height: -12, Epsilon: 0.05, Enabled: true}
	})

	It("lifts particles to the floor and overwrites velocity", func() {
		x := stateAt(r3.Vec{X: 4, Y: -12.55, Z: 1})
		x.Velocities[0] = r3.Vec{X: 3, Y: -20, Z: 1}
		Expect(ground.Apply(&x, nil, 0.1)).To(Equal(1))

		Expect(x.Positions[0].X).To(Equal(4.0))
		Expect(x.Positions[0].Y).To(Equal(ground.Floor()))
		Expect(x.Positions[0].Z).To(Equal(1.0))
		Expect(x.Velocities[0].X).To(BeZero())
		Expect(x.Velocities[0].Y).To(BeNumerically("~", 6, 1e-9))
		Expect(x.Velocities[0].Z).To(BeZero())
	})

	It("only moves positions when dt is not positive", func() {
		x := stateAt(r3.Vec{Y: -20})
		x.Velocities[0] = r3.Vec{Y: -1}
		ground.Apply(&x, nil, 0)
		Expect(x.Positions[0].Y).To(Equal(ground.Floor()))
		Expect(x.Velocities[0]).To(Equal(r3.Vec{Y: -1}))
	})

	It("skips pinned particles", func() {
		x := stateAt(r3.Vec{Y: -20})
		Expect(ground.Apply(&x, pinSet{0: true}, 0.1)).To(BeZero())
		Expect(x.Positions[0].Y).To(Equal(-20.0))
	})

	It("reports override mode", func() {
		Expect(ground.Mode()).To(Equal(collision.VelocityOverride))
	})
})

var _ = Describe("Resolve", func() {
	It("applies the sphere before the ground", func() {
		obs := collision.Obstacles{
			Sphere: collision.Sphere{Center: r3.Vec{Y: 1}, Radius: 1.5, Enabled: true},
			Ground: collision.Ground{Height: 0, Enabled: true},
		}
		// sphere pushes the particle down below the ground, ground lifts it back
		x := stateAt(r3.Vec{Y: 0.5})
		contacts := collision.Resolve(obs, &x, nil, 0.1)

		Expect(contacts).To(Equal(collision.Contacts{Sphere: 1, Ground: 1}))
		Expect(contacts.Total()).To(Equal(2))
		Expect(x.Positions[0].Y).To(BeNumerically(">=", 0))
	})

	It("accumulates contacts", func() {
		var total collision.Contacts
		total.Add(collision.Contacts{Sphere: 2})
		total.Add(collision.Contacts{Sphere: 1, Ground: 4})
		Expect(total).To(Equal(collision.Contacts{Sphere: 3, Ground: 4}))
	})

	It("is a no-op with every obstacle disabled", func() {
		x := stateAt(r3.Vec{Y: -100})
		Expect(collision.Resolve(collision.Obstacles{}, &x, nil, 0.1).Total()).To(BeZero())
	})
})
