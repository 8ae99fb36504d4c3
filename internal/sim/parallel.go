package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Group advances independent simulations side by side, one goroutine per
// simulation. A single simulation is never split across goroutines.
type Group struct {
	sims []*Simulation
}

func NewGroup(sims ...*Simulation) *Group {
	return &Group{sims: sims}
}

func (g *Group) Add(s *Simulation) { g.sims = append(g.sims, s) }
func (g *Group) Len() int          { return len(g.sims) }

func (g *Group) Simulations() []*Simulation {
	out := make([]*Simulation, len(g.sims))
	copy(out, g.sims)
	return out
}

// Advance advances every simulation by frameDt with the same input. The
// returned states are indexed like the group. Frames are integrated
// concurrently and committed only if every member succeeded, so members
// stay in step; on error no simulation has moved and the first error is
// returned.
func (g *Group) Advance(ctx context.Context, frameDt float64, in Input) ([]dynamo.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pending := make([]*pendingFrame, len(g.sims))
	errs := make([]error, len(g.sims))

	var wg sync.WaitGroup
	for i, s := range g.sims {
		wg.Add(1)
		go func(idx int, s *Simulation) {
			defer wg.Done()
			pending[idx], errs[idx] = s.prepare(frameDt, in)
		}(i, s)
	}
	wg.Wait()

	states := make([]dynamo.State, len(g.sims))
	for _, err := range errs {
		if err == nil {
			continue
		}
		for i, s := range g.sims {
			if pending[i] != nil {
				s.abort(pending[i])
			}
			states[i] = s.State()
		}
		return states, err
	}

	for i, s := range g.sims {
		s.commit(pending[i])
		states[i] = s.State()
	}
	return states, nil
}

// Reset resets every simulation in the group.
func (g *Group) Reset() {
	for _, s := range g.sims {
		s.Reset()
	}
}
