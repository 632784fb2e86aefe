package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/sim"
)

// SceneBuilder lays out a scene for cfg, drawing any randomness from rng.
type SceneBuilder func(cfg *config.Config, rng dynamo.Rand) (*sim.Scene, error)

type Registry struct {
	scenes map[string]SceneBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]SceneBuilder),
	}

	r.scenes["llm"] = BuildLLM
	r.scenes["nebula"] = BuildNebula

	return r
}

func (r *Registry) Register(name string, b SceneBuilder) {
	r.scenes[name] = b
}

// Build creates the scene named by cfg.Scene.
func (r *Registry) Build(cfg *config.Config, rng dynamo.Rand) (*sim.Scene, error) {
	fn, ok := r.scenes[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", cfg.Scene, dynamo.ErrUnknownPreset)
	}
	if cfg.Segments < 1 {
		return nil, fmt.Errorf("segments must be positive, got %d: %w", cfg.Segments, dynamo.ErrParameterBounds)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("canvas %gx%g: %w", cfg.Width, cfg.Height, dynamo.ErrParameterBounds)
	}
	sc, err := fn(cfg, rng)
	if err != nil {
		return nil, err
	}
	sc.Rand = rng
	return sc, nil
}

// Factory adapts the registry to sim.Ensemble: each seed gets its own copy of
// cfg.
func (r *Registry) Factory(cfg *config.Config) sim.SceneFactory {
	return func(seed int64, rng dynamo.Rand) (*sim.Scene, error) {
		c := cfg.Clone()
		c.Seed = seed
		return r.Build(c, rng)
	}
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Standard()
}
