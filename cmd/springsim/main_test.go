package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
)

func newSimCommand(t *testing.T, flagArgs ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newSimCommand(t), []string{"pendulum"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "pendulum" || cfg.Integrator != "rk4" || cfg.Step != config.DefaultStep {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_FlagsOverridePreset(t *testing.T) {
	cmd := newSimCommand(t, "--integrator", "euler", "--time", "2")
	preset = "stiff"
	cfg, err := loadConfig(cmd, []string{"pendulum"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pendulum.Stiffness != 200 || cfg.Step != 0.001 {
		t.Errorf("preset not applied: %+v", cfg.Pendulum)
	}
	if cfg.Integrator != "euler" || cfg.Duration != 2 {
		t.Errorf("flags not applied: integrator %s, duration %v", cfg.Integrator, cfg.Duration)
	}
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	fileCfg := config.DefaultConfig()
	fileCfg.Scene = "orbit"
	fileCfg.FPS = 30
	if err := config.Save(path, fileCfg); err != nil {
		t.Fatal(err)
	}

	cmd := newSimCommand(t, "--fps", "120")
	configFile = path
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "orbit" {
		t.Errorf("scene = %s, want orbit", cfg.Scene)
	}
	if cfg.FPS != 120 {
		t.Errorf("fps = %v, want the flag value 120", cfg.FPS)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cmd := newSimCommand(t)
	preset = "nope"
	if _, err := loadConfig(cmd, []string{"cloth"}); err == nil {
		t.Error("expected error for unknown preset")
	}

	cmd = newSimCommand(t, "--integrator", "leapfrog")
	if _, err := loadConfig(cmd, []string{"cloth"}); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestSetupLogging(t *testing.T) {
	if err := setupLogging("DEBUG"); err != nil {
		t.Errorf("debug: %v", err)
	}
	if err := setupLogging("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
