package sim

import (
	"log/slog"

	"github.com/san-kum/springsim/internal/collision"
)

// DefaultStep is the fixed sub-step size used when Options.Step is zero.
const DefaultStep = 0.01

type Options struct {
	// Step is the fixed sub-step size. Zero selects DefaultStep.
	Step float64
	// MaxSubSteps rejects frames needing more sub-steps than this. Zero
	// selects DefaultMaxSubSteps.
	MaxSubSteps int
	// ValidateState rejects a frame whose sub-steps produce NaN or Inf.
	ValidateState bool
	// Logger receives per-frame debug records. Nil disables logging.
	Logger *slog.Logger
}

// Input carries the per-frame external inputs. It is captured once at the
// start of a frame and not re-read between sub-steps.
type Input struct {
	Obstacles collision.Obstacles
}

// FrameStats summarizes one Advance call.
type FrameStats struct {
	Frame    int
	FrameDt  float64
	SubSteps int
	StepDt   float64
	Time     float64
	Rollover float64
	Contacts collision.Contacts
}

// LogValue implements slog.LogValuer for structured logging.
func (f FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", f.Frame),
		slog.Float64("frame_dt", f.FrameDt),
		slog.Int("sub_steps", f.SubSteps),
		slog.Float64("step_dt", f.StepDt),
		slog.Float64("time", f.Time),
		slog.Float64("rollover", f.Rollover),
		slog.Int("sphere_contacts", f.Contacts.Sphere),
		slog.Int("ground_contacts", f.Contacts.Ground),
	)
}
