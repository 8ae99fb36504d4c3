package scene

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/sim"
)

// Scene is a self-contained simulation that advances one frame at a time.
type Scene interface {
	Name() string
	Update(frameDt float64, cmd Commands) error
	State() dynamo.State
	Time() float64
	Reset()
	// Simulation returns the primary simulation of the scene.
	Simulation() *sim.Simulation
}

// Builder constructs a scene from a configuration.
type Builder func(cfg *config.Config) (Scene, error)

type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry holding the built-in scenes.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.Register("orbit", func(cfg *config.Config) (Scene, error) {
		kinds := make([]integrators.Kind, 0, len(cfg.Orbit.Integrators))
		for _, name := range cfg.Orbit.Integrators {
			kind, err := integrators.ParseKind(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		return NewOrbit(kinds, simOptions(cfg))
	})
	r.Register("pendulum", func(cfg *config.Config) (Scene, error) {
		integ, err := integrators.NewByName(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		return NewPendulum(cfg.Pendulum, integ, simOptions(cfg))
	})
	r.Register("cloth", func(cfg *config.Config) (Scene, error) {
		integ, err := integrators.NewByName(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		return NewCloth(cfg.Cloth, integ, simOptions(cfg))
	})

	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

func (r *Registry) Build(name string, cfg *config.Config) (Scene, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return b(cfg)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Build constructs a built-in scene by name.
func Build(name string, cfg *config.Config) (Scene, error) {
	return defaultRegistry.Build(name, cfg)
}

// List returns the names of the built-in scenes.
func List() []string {
	return defaultRegistry.List()
}

func simOptions(cfg *config.Config) sim.Options {
	return sim.Options{
		Step:          cfg.Step,
		MaxSubSteps:   cfg.MaxSubSteps,
		ValidateState: cfg.ValidateState,
		Logger:        slog.Default(),
	}
}
