package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/integrators"
)

const (
	DefaultStep     = 0.005
	DefaultFPS      = 60.0
	DefaultDuration = 10.0

	DefaultClothSize      = 12
	DefaultClothWidth     = 10.0
	DefaultClothStiffness = 150.0
	DefaultClothMass      = 0.075
	DefaultFlexFactor     = 1.3

	DefaultBallRadius    = 2.0
	DefaultBallEpsilon   = 0.12
	DefaultGroundHeight  = -12.0
	DefaultGroundEpsilon = 0.05
)

type Config struct {
	Scene         string  `yaml:"scene"`
	Integrator    string  `yaml:"integrator"`
	Step          float64 `yaml:"step"`
	FPS           float64 `yaml:"fps"`
	Duration      float64 `yaml:"duration"`
	ValidateState bool    `yaml:"validate"`
	// MaxSubSteps caps the sub-steps of one frame; zero uses the engine
	// default.
	MaxSubSteps int `yaml:"max_sub_steps"`

	Orbit    OrbitConfig    `yaml:"orbit"`
	Pendulum PendulumConfig `yaml:"pendulum"`
	Cloth    ClothConfig    `yaml:"cloth"`
}

type OrbitConfig struct {
	// Integrators are compared side by side, one simulation each.
	Integrators []string `yaml:"integrators"`
}

type PendulumConfig struct {
	Points       []r3.Vec `yaml:"points"`
	Mass         float64  `yaml:"mass"`
	RestLength   float64  `yaml:"rest_length"`
	Stiffness    float64  `yaml:"stiffness"`
	Gravity      r3.Vec   `yaml:"gravity"`
	Drag         float64  `yaml:"drag"`
	Wind         bool     `yaml:"wind"`
	WindStrength float64  `yaml:"wind_strength"`
}

type ClothConfig struct {
	Size         int          `yaml:"size"`
	Width        float64      `yaml:"width"`
	Stiffness    float64      `yaml:"stiffness"`
	FlexFactor   float64      `yaml:"flex_factor"`
	Mass         float64      `yaml:"mass"`
	Gravity      r3.Vec       `yaml:"gravity"`
	Drag         float64      `yaml:"drag"`
	Wind         bool         `yaml:"wind"`
	WindStrength float64      `yaml:"wind_strength"`
	Ground       GroundConfig `yaml:"ground"`
	Ball         BallConfig   `yaml:"ball"`
}

type GroundConfig struct {
	Height  float64 `yaml:"height"`
	Epsilon float64 `yaml:"epsilon"`
}

type BallConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Epsilon float64 `yaml:"epsilon"`
	Start   r3.Vec  `yaml:"start"`
	// Path is "cosine" (oscillate along z) or "eased" (yo-yo from Start to
	// Target).
	Path      string  `yaml:"path"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Target    r3.Vec  `yaml:"target"`
	Period    float64 `yaml:"period"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:         "cloth",
		Integrator:    "rk4",
		Step:          DefaultStep,
		FPS:           DefaultFPS,
		Duration:      DefaultDuration,
		ValidateState: true,
		Orbit: OrbitConfig{
			Integrators: []string{"euler", "trapezoidal"},
		},
		Pendulum: PendulumConfig{
			Points:       []r3.Vec{{}, {X: 0.5, Y: -1}, {Y: -2}, {X: -0.2, Y: -3}},
			Mass:         1.5,
			RestLength:   0.75,
			Stiffness:    20,
			Gravity:      r3.Vec{Y: -2},
			Drag:         0.1,
			WindStrength: 5,
		},
		Cloth: ClothConfig{
			Size:         DefaultClothSize,
			Width:        DefaultClothWidth,
			Stiffness:    DefaultClothStiffness,
			FlexFactor:   DefaultFlexFactor,
			Mass:         DefaultClothMass,
			Gravity:      r3.Vec{Y: -50},
			Drag:         0.4,
			WindStrength: 5,
			Ground: GroundConfig{
				Height:  DefaultGroundHeight,
				Epsilon: DefaultGroundEpsilon,
			},
			Ball: BallConfig{
				Enabled:   true,
				Radius:    DefaultBallRadius,
				Epsilon:   DefaultBallEpsilon,
				Start:     r3.Vec{X: 3, Y: -8, Z: 7.5},
				Path:      "cosine",
				Amplitude: 8.5,
				Frequency: 0.75,
				Target:    r3.Vec{X: 3, Y: -8, Z: -9.5},
				Period:    4,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Orbit.Integrators = append([]string(nil), c.Orbit.Integrators...)
	out.Pendulum.Points = append([]r3.Vec(nil), c.Pendulum.Points...)
	return &out
}

// FrameDt returns the wall time of one frame.
func (c *Config) FrameDt() float64 {
	return 1 / c.FPS
}

// Frames returns how many frames cover Duration.
func (c *Config) Frames() int {
	return int(c.Duration*c.FPS + 0.5)
}

func (c *Config) Validate() error {
	if _, err := integrators.ParseKind(c.Integrator); err != nil {
		return err
	}
	for _, name := range c.Orbit.Integrators {
		if _, err := integrators.ParseKind(name); err != nil {
			return fmt.Errorf("orbit: %w", err)
		}
	}
	if !(c.Step > 0) {
		return fmt.Errorf("step must be positive, got %g", c.Step)
	}
	if !(c.FPS > 0) {
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %g", c.Duration)
	}
	if c.MaxSubSteps < 0 {
		return fmt.Errorf("max_sub_steps must not be negative, got %d", c.MaxSubSteps)
	}

	p := c.Pendulum
	if len(p.Points) < 1 {
		return fmt.Errorf("pendulum: at least one point required")
	}
	if !(p.Mass > 0) || !(p.RestLength > 0) || !(p.Stiffness > 0) {
		return fmt.Errorf("pendulum: mass, rest_length and stiffness must be positive")
	}

	cl := c.Cloth
	if cl.Size < 2 {
		return fmt.Errorf("cloth: size must be at least 2, got %d", cl.Size)
	}
	if !(cl.Width > 0) || !(cl.Stiffness > 0) || !(cl.Mass > 0) || !(cl.FlexFactor > 0) {
		return fmt.Errorf("cloth: width, stiffness, flex_factor and mass must be positive")
	}
	if cl.Ball.Radius < 0 || cl.Ball.Epsilon < 0 || cl.Ground.Epsilon < 0 {
		return fmt.Errorf("cloth: ball radius and epsilons must not be negative")
	}
	switch cl.Ball.Path {
	case "", "cosine", "eased":
	default:
		return fmt.Errorf("cloth: unknown ball path %q (available: cosine, eased)", cl.Ball.Path)
	}
	if cl.Ball.Path == "eased" && !(cl.Ball.Period > 0) {
		return fmt.Errorf("cloth: eased ball path needs a positive period")
	}
	return nil
}
