package sim

import "github.com/san-kum/springsim/internal/dynamo"

// Recorder is an Observer that keeps every Nth sub-step state.
type Recorder struct {
	every  int
	count  int
	States []dynamo.State
	Times  []float64
}

// NewRecorder keeps one state out of every `every` sub-steps. Values below
// one keep everything.
func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(x dynamo.State, t float64) {
	r.count++
	if r.count%r.every != 0 {
		return
	}
	r.States = append(r.States, x.Clone())
	r.Times = append(r.Times, t)
}

func (r *Recorder) Len() int { return len(r.States) }

func (r *Recorder) Reset() {
	r.count = 0
	r.States = r.States[:0]
	r.Times = r.Times[:0]
}
