package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/scene"
)

const frameDt = 1.0 / 60

func build(t *testing.T, name string) scene.Scene {
	t.Helper()
	sc, err := scene.Build(name, config.DefaultConfig())
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	return sc
}

func TestRun_RecordsEveryFrame(t *testing.T) {
	exp, err := New(build(t, "pendulum"), Config{Frames: 30, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Frames != 30 {
		t.Errorf("frames = %d, want 30", res.Frames)
	}
	if got := res.Trajectory.Len(); got != 31 {
		t.Errorf("recorded %d states, want 31", got)
	}
	if res.Trajectory.Times[0] != 0 {
		t.Errorf("first sample at %v, want 0", res.Trajectory.Times[0])
	}
	last := res.Trajectory.Times[res.Trajectory.Len()-1]
	if math.Abs(last-30*frameDt) > config.DefaultStep {
		t.Errorf("last sample at %v, want about %v", last, 30*frameDt)
	}
	if res.Steps == 0 {
		t.Error("expected sub-steps to be counted")
	}
}

func TestRun_Decimation(t *testing.T) {
	exp, err := New(build(t, "orbit"), Config{Frames: 10, FrameDt: frameDt, Every: 3})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Trajectory.Len(); got != 4 {
		t.Errorf("recorded %d states, want 4", got)
	}
}

func TestRun_ScheduledPause(t *testing.T) {
	exp, err := New(build(t, "pendulum"), Config{Frames: 20, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	exp.Schedule(10, scene.Commands{TogglePause: true})

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	times := res.Trajectory.Times
	if times[10] == times[9] {
		t.Error("scene paused too early")
	}
	for f := 11; f < len(times); f++ {
		if times[f] != times[10] {
			t.Errorf("time advanced while paused: frame %d at %v", f, times[f])
		}
	}
}

func TestRun_ClothCountsGroundContacts(t *testing.T) {
	exp, err := New(build(t, "cloth"), Config{Frames: 240, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	exp.Schedule(0, scene.Commands{CyclePins: true})
	exp.Schedule(1, scene.Commands{CyclePins: true})

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Contacts.Ground == 0 {
		t.Error("released cloth never reached the ground")
	}
}

func TestRun_ErrorKeepsPartialResult(t *testing.T) {
	exp, err := New(build(t, "pendulum"), Config{Frames: 10, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	exp.Schedule(4, scene.Commands{Drag: &scene.Drag{Particle: 99}})

	res, err := exp.Run(context.Background())
	if !errors.Is(err, dynamo.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if res.Frames != 4 || res.Trajectory.Len() != 5 {
		t.Errorf("partial result: %d frames, %d states", res.Frames, res.Trajectory.Len())
	}
}

func TestRun_Cancelled(t *testing.T) {
	exp, err := New(build(t, "orbit"), Config{Frames: 100, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Frames != 0 {
		t.Errorf("ran %d frames after cancel", res.Frames)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(nil, Config{Frames: 1, FrameDt: frameDt}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("nil scene: got %v", err)
	}
	sc := build(t, "orbit")
	if _, err := New(sc, Config{Frames: -1, FrameDt: frameDt}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("negative frames: got %v", err)
	}
	if _, err := New(sc, Config{Frames: 1, FrameDt: math.NaN()}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("NaN frame dt: got %v", err)
	}
}

func TestAttachMetrics(t *testing.T) {
	sc := build(t, "pendulum")
	AttachMetrics(sc.Simulation())

	exp, err := New(sc, Config{Frames: 30, FrameDt: frameDt})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"energy", "energy_drift", "max_strain", "stability"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %q in %v", name, res.Metrics)
		}
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("stability = %v, want 1", res.Metrics["stability"])
	}

	meta := res.Metadata("pendulum", "rk4", config.DefaultStep, config.DefaultFPS)
	if meta.Steps != res.Steps || meta.Scene != "pendulum" {
		t.Errorf("metadata: %+v", meta)
	}
	if math.Abs(meta.Duration-res.Trajectory.Times[30]) > 1e-12 {
		t.Errorf("duration = %v", meta.Duration)
	}
}
