package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// SpringNetwork exposes the springs of a system.
type SpringNetwork interface {
	Springs() []physics.Spring
}

// Strain reports the largest relative spring extension seen so far.
type Strain struct {
	name    string
	springs []physics.Spring
	max     float64
	last    float64
}

// NewStrain snapshots the spring list of net. Springs added later are not
// tracked.
func NewStrain(net SpringNetwork) *Strain {
	return &Strain{
		name:    "max_strain",
		springs: net.Springs(),
	}
}

func (s *Strain) Name() string { return s.name }

func (s *Strain) Observe(x dynamo.State, t float64) {
	s.last = 0
	for _, sp := range s.springs {
		if sp.Start >= x.Len() || sp.End >= x.Len() {
			continue
		}
		s.last = math.Max(s.last, sp.Strain(x.Positions[sp.Start], x.Positions[sp.End]))
	}
	s.max = math.Max(s.max, s.last)
}

func (s *Strain) Value() float64 { return s.max }

// Last returns the strain of the most recently observed state.
func (s *Strain) Last() float64 { return s.last }

func (s *Strain) Reset() {
	s.max = 0
	s.last = 0
}
