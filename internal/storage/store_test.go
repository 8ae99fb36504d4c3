package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

func sampleTrajectory() Trajectory {
	var traj Trajectory
	x := dynamo.NewState(2)
	x.Positions[1] = r3.Vec{X: 1}
	traj.Append(0, x)

	x.Positions[0] = r3.Vec{Y: -0.1}
	x.Velocities[0] = r3.Vec{Y: -1, Z: 0.25}
	x.Positions[1] = r3.Vec{X: 1.5, Y: 2, Z: -3}
	traj.Append(1.0/60, x)
	return traj
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	traj := sampleTrajectory()
	runID, err := st.Save(RunMetadata{
		Scene:      "cloth",
		Integrator: "rk4",
		Step:       0.005,
		FPS:        60,
		Metrics:    map[string]float64{"energy": 1.5},
	}, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "cloth" {
		t.Errorf("expected scene 'cloth', got '%s'", meta.Scene)
	}
	if meta.Frames != 2 || meta.Particles != 2 {
		t.Errorf("expected 2 frames of 2 particles, got %d / %d", meta.Frames, meta.Particles)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", loaded.Len())
	}
	for f := range traj.States {
		if loaded.Times[f] != traj.Times[f] {
			t.Errorf("frame %d time: got %v, want %v", f, loaded.Times[f], traj.Times[f])
		}
		if d := loaded.States[f].MaxDistance(traj.States[f]); d != 0 {
			t.Errorf("frame %d positions differ by %v", f, d)
		}
		for i, v := range traj.States[f].Velocities {
			if loaded.States[f].Velocities[i] != v {
				t.Errorf("frame %d particle %d velocity: got %v, want %v", f, i, loaded.States[f].Velocities[i], v)
			}
		}
	}
}

func TestStoreEmptyTrajectory(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scene: "orbit"}, Trajectory{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	traj, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if traj.Len() != 0 {
		t.Errorf("expected empty trajectory, got %d frames", traj.Len())
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, scene := range []string{"pendulum", "orbit", "cloth"} {
		meta := RunMetadata{Scene: scene, Timestamp: base.Add(-time.Duration(i) * time.Hour)}
		if _, err := st.Save(meta, sampleTrajectory()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray entries are skipped
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []string{"cloth", "orbit", "pendulum"}
	for i, r := range runs {
		if r.Scene != want[i] {
			t.Errorf("run %d: expected %s, got %s", i, want[i], r.Scene)
		}
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestFromRecordsRejectsRaggedFrames(t *testing.T) {
	records := []*FrameRecord{
		{Frame: 0, Particle: 0},
		{Frame: 0, Particle: 1},
		{Frame: 1, Particle: 0},
	}
	if _, err := FromRecords(records); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := FromRecords([]*FrameRecord{{Frame: -1}}); !errors.Is(err, dynamo.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestTrajectoryColumn(t *testing.T) {
	traj := sampleTrajectory()
	ys, err := traj.Column(0, "vy")
	if err != nil {
		t.Fatal(err)
	}
	if len(ys) != 2 || ys[0] != 0 || ys[1] != -1 {
		t.Errorf("vy column: got %v", ys)
	}
	if _, err := traj.Column(0, "w"); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := traj.Column(2, "x"); !errors.Is(err, dynamo.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "runs"))
	runID, err := st.Save(RunMetadata{Scene: "pendulum", Integrator: "euler"}, sampleTrajectory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out := filepath.Join(tmpDir, "run.json")
	if err := st.ExportJSON(runID, out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID {
		t.Errorf("expected run id %s, got %s", runID, data.Run.ID)
	}
	if len(data.Frames) != 2 || len(data.Times) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(data.Frames))
	}
	if got := data.Frames[1].Positions[1]; got != [3]float64{1.5, 2, -3} {
		t.Errorf("frame 1 particle 1: got %v", got)
	}

	if err := st.ExportJSON("nope", out); err == nil {
		t.Error("expected error for unknown run")
	}
}
