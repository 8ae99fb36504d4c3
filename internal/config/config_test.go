package config

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "cloth" {
		t.Errorf("expected scene cloth, got %s", cfg.Scene)
	}
	if cfg.Step <= 0 {
		t.Error("step should be positive")
	}
	if cfg.Cloth.Size != 12 || cfg.Cloth.Width != 10 {
		t.Errorf("unexpected cloth grid %d x %v", cfg.Cloth.Size, cfg.Cloth.Width)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := DefaultConfig()
	cfg.Scene = "pendulum"
	cfg.Integrator = "trapezoidal"
	cfg.Pendulum.Gravity = r3.Vec{Y: -9.81}
	cfg.Cloth.Ball.Path = "eased"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Scene != "pendulum" || loaded.Integrator != "trapezoidal" {
		t.Errorf("scalar fields lost: %+v", loaded)
	}
	if loaded.Pendulum.Gravity != cfg.Pendulum.Gravity {
		t.Errorf("gravity = %v, want %v", loaded.Pendulum.Gravity, cfg.Pendulum.Gravity)
	}
	if len(loaded.Pendulum.Points) != 4 || loaded.Pendulum.Points[1] != (r3.Vec{X: 0.5, Y: -1}) {
		t.Errorf("points = %v", loaded.Pendulum.Points)
	}
	if loaded.Cloth.Ball.Path != "eased" {
		t.Errorf("ball path = %q", loaded.Cloth.Ball.Path)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("scene: orbit\nstep: 0.02\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "orbit" || cfg.Step != 0.02 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Cloth.Stiffness != DefaultClothStiffness {
		t.Errorf("default stiffness lost: %v", cfg.Cloth.Stiffness)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"bad integrator", "integrator: leapfrog\n"},
		{"zero step", "step: 0\n"},
		{"negative sub-step limit", "max_sub_steps: -1\n"},
		{"tiny cloth", "cloth:\n  size: 1\n"},
		{"bad path", "cloth:\n  ball:\n    path: spiral\n"},
		{"not yaml", "scene: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cloth", "windy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Cloth.Wind || cfg.Scene != "cloth" {
		t.Errorf("unexpected preset %+v", cfg.Cloth)
	}

	cfg.Cloth.WindStrength = 99
	if GetPreset("cloth", "windy").Cloth.WindStrength == 99 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("cloth", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for scene := range Presets {
		for _, name := range ListPresets(scene) {
			if err := GetPreset(scene, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", scene, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("pendulum")
	if len(presets) != 4 || presets[0] != "default" {
		t.Errorf("unexpected pendulum presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 30
	cfg.Duration = 2
	if cfg.Frames() != 60 {
		t.Errorf("frames = %d", cfg.Frames())
	}
	if cfg.FrameDt() != 1.0/30 {
		t.Errorf("frame dt = %v", cfg.FrameDt())
	}
}
