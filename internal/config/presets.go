package config

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Presets holds named variations of the default configuration per scene.
var Presets = map[string]map[string]*Config{
	"orbit": {
		"default": preset("orbit", func(c *Config) {}),
		"all": preset("orbit", func(c *Config) {
			c.Orbit.Integrators = []string{"euler", "trapezoidal", "rk4"}
		}),
		"coarse": preset("orbit", func(c *Config) {
			c.Step = 0.05
			c.Duration = 30
		}),
	},
	"pendulum": {
		"default": preset("pendulum", func(c *Config) {}),
		"stiff": preset("pendulum", func(c *Config) {
			c.Pendulum.Stiffness = 200
			c.Step = 0.001
		}),
		"windy": preset("pendulum", func(c *Config) {
			c.Pendulum.Wind = true
			c.Pendulum.WindStrength = 8
		}),
		"long": preset("pendulum", func(c *Config) {
			c.Pendulum.Points = []r3.Vec{{}, {X: 0.5, Y: -1}, {Y: -2}, {X: -0.2, Y: -3}, {X: 0.3, Y: -4}, {Y: -5}, {X: -0.4, Y: -6}}
			c.Duration = 30
		}),
	},
	"cloth": {
		"default": preset("cloth", func(c *Config) {}),
		"windy": preset("cloth", func(c *Config) {
			c.Cloth.Wind = true
			c.Cloth.WindStrength = 8
		}),
		"fine": preset("cloth", func(c *Config) {
			c.Cloth.Size = 20
			c.Step = 0.002
		}),
		"eased": preset("cloth", func(c *Config) {
			c.Cloth.Ball.Path = "eased"
			c.Cloth.Ball.Period = 3
		}),
		"noball": preset("cloth", func(c *Config) {
			c.Cloth.Ball.Enabled = false
		}),
	},
}

func preset(scene string, apply func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a scene in sorted order.
func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
