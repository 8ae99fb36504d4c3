// Package automation runs scripted scenarios and parameter sweeps on top of
// the headless experiment runner.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/scene"
	"github.com/san-kum/springsim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one scene. Zero-valued overrides keep the preset value.
type ScenarioStep struct {
	Scene      string  `yaml:"scene"`
	Preset     string  `yaml:"preset"`
	Integrator string  `yaml:"integrator"`
	Step       float64 `yaml:"step"`
	FPS        float64 `yaml:"fps"`
	Duration   float64 `yaml:"duration"`
	Every      int     `yaml:"every"`
	Events     []Event `yaml:"events"`
	Save       bool    `yaml:"save"`
}

// Event is a command issued at the start of a frame.
type Event struct {
	Frame        int        `yaml:"frame"`
	Reset        bool       `yaml:"reset"`
	TogglePause  bool       `yaml:"toggle_pause"`
	CyclePins    bool       `yaml:"cycle_pins"`
	ToggleWind   bool       `yaml:"toggle_wind"`
	ToggleBall   bool       `yaml:"toggle_ball"`
	WindStrength *float64   `yaml:"wind_strength"`
	Gravity      *r3.Vec    `yaml:"gravity"`
	Drag         *DragEvent `yaml:"drag"`
}

type DragEvent struct {
	Particle int    `yaml:"particle"`
	Offset   r3.Vec `yaml:"offset"`
}

func (e Event) Commands() scene.Commands {
	cmd := scene.Commands{
		Reset:        e.Reset,
		TogglePause:  e.TogglePause,
		CyclePins:    e.CyclePins,
		ToggleWind:   e.ToggleWind,
		ToggleBall:   e.ToggleBall,
		WindStrength: e.WindStrength,
		Gravity:      e.Gravity,
	}
	if e.Drag != nil {
		cmd.Drag = &scene.Drag{Particle: e.Drag.Particle, Offset: e.Drag.Offset}
	}
	return cmd
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the configuration of a step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(s.Scene))
		}
	}
	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Step != 0 {
		cfg.Step = s.Step
	}
	if s.FPS != 0 {
		cfg.FPS = s.FPS
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	return cfg, cfg.Validate()
}

// StepResult is the outcome of one scenario step. RunID is empty unless
// the step was saved.
type StepResult struct {
	Scene  string
	RunID  string
	Result *experiment.Result
}

// RunScenario executes all steps in a scenario. Steps marked save are
// written to st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "scene", step.Scene)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc, err := scene.Build(cfg.Scene, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		experiment.AttachMetrics(sc.Simulation())

		exp, err := experiment.New(sc, experiment.Config{Frames: cfg.Frames(), FrameDt: cfg.FrameDt(), Every: step.Every})
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		for _, ev := range step.Events {
			exp.Schedule(ev.Frame, ev.Commands())
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scene: cfg.Scene, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			meta := result.Metadata(cfg.Scene, cfg.Integrator, cfg.Step, cfg.FPS)
			meta.Preset = step.Preset
			if sr.RunID, err = st.Save(meta, result.Trajectory); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Tunable systems expose named runtime parameters.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// ParameterSweep runs a scene once per parameter value
type ParameterSweep struct {
	Config    *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	FinalState  dynamo.State
	MaxStrain   float64
	EnergyDrift float64
	Stability   float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrParameterBounds)
	}
	cfg := sweep.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		sc, err := scene.Build(cfg.Scene, cfg)
		if err != nil {
			return results, err
		}
		tunable, ok := sc.Simulation().System().(Tunable)
		if !ok {
			return results, fmt.Errorf("scene %s is not tunable", cfg.Scene)
		}
		if err := tunable.SetParam(sweep.ParamName, paramVal); err != nil {
			return results, err
		}
		experiment.AttachMetrics(sc.Simulation())

		exp, err := experiment.New(sc, experiment.Config{Frames: cfg.Frames(), FrameDt: cfg.FrameDt(), Every: cfg.Frames() + 1})
		if err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			FinalState:  sc.State(),
			MaxStrain:   result.Metrics["max_strain"],
			EnergyDrift: result.Metrics["energy_drift"],
			Stability:   result.Metrics["stability"],
		})
		slog.Debug("sweep", "index", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
