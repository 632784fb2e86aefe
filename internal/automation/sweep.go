// Package automation runs batches of experiments described in YAML, such as
// sweeping one tuning parameter across a range.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
)

// Sweep runs one scene once per value of a tuning parameter, spaced evenly
// from Min to Max.
type Sweep struct {
	Scene  string  `yaml:"scene"`
	Param  string  `yaml:"param"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Steps  int     `yaml:"steps"`
	Frames int     `yaml:"frames"`
	Seed   int64   `yaml:"seed"`
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Stable  bool
	Err     error
}

func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Sweep
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

var setters = map[string]func(c *config.Config, v float64){
	"gravity":           func(c *config.Config, v float64) { c.Physics.Gravity = v },
	"friction":          func(c *config.Config, v float64) { c.Physics.Friction = v },
	"turbulence":        func(c *config.Config, v float64) { c.Physics.Turbulence = v },
	"iterations":        func(c *config.Config, v float64) { c.Physics.Iterations = int(v + 0.5) },
	"stiffness_min":     func(c *config.Config, v float64) { c.Physics.StiffnessMin = v },
	"stiffness_max":     func(c *config.Config, v float64) { c.Physics.StiffnessMax = v },
	"stiffness_width":   func(c *config.Config, v float64) { c.Physics.StiffnessWidth = v },
	"release_ms":        func(c *config.Config, v float64) { c.Physics.ReleaseMs = v },
	"whiplash_gain":     func(c *config.Config, v float64) { c.Physics.WhiplashGain = v },
	"whiplash_fraction": func(c *config.Config, v float64) { c.Physics.WhiplashFraction = v },
	"spring_k":          func(c *config.Config, v float64) { c.Spring.K = v },
	"spring_damping":    func(c *config.Config, v float64) { c.Spring.Damping = v },
	"spring_gain":       func(c *config.Config, v float64) { c.Spring.Gain = v },
	"segments":          func(c *config.Config, v float64) { c.Segments = int(v + 0.5) },
}

// SetParam writes a named tuning value into cfg.
func SetParam(cfg *config.Config, name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("sweep parameter %q: %w", name, dynamo.ErrUnknownPreset)
	}
	set(cfg, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values lists the sweep points. A single step sits at Min.
func (s *Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	vals := make([]float64, s.Steps)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep applies each sweep value on top of base. A value whose tuning is
// out of bounds or whose run diverges is recorded as unstable and the sweep
// carries on; context cancellation stops it.
func RunSweep(ctx context.Context, sweep *Sweep, base *config.Config, reg *experiment.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, ok := setters[sweep.Param]; !ok {
		return nil, fmt.Errorf("sweep parameter %q: %w", sweep.Param, dynamo.ErrUnknownPreset)
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := base.Clone()
		if sweep.Scene != "" {
			cfg.Scene = sweep.Scene
		}
		if sweep.Frames > 0 {
			cfg.Frames = sweep.Frames
		}
		if sweep.Seed != 0 {
			cfg.Seed = sweep.Seed
		}
		_ = SetParam(cfg, sweep.Param, v)

		res := SweepResult{Value: v}
		exp, err := experiment.New(cfg, reg, logger)
		if err == nil {
			result, runErr := exp.Run(ctx, 0)
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			err = runErr
			if result != nil {
				res.Metrics = result.Metrics
			}
		}
		res.Err = err
		res.Stable = err == nil

		logger.Debug("sweep point",
			zap.Int("index", i+1),
			zap.Int("total", len(values)),
			zap.String("param", sweep.Param),
			zap.Float64("value", v),
			zap.Bool("stable", res.Stable),
		)
		results = append(results, res)
	}

	return results, nil
}

// Stats counts stable and unstable points.
func Stats(results []SweepResult) (stable int, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}
