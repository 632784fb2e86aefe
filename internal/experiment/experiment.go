package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/sim"
)

// Experiment is a configured scene plus the simulator that steps it.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	scene     *sim.Scene
}

func New(cfg *config.Config, reg *Registry, logger *zap.Logger) (*Experiment, error) {
	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	scene, err := reg.Build(cfg, dynamo.NewRand(cfg.Seed))
	if err != nil {
		return nil, err
	}

	s := sim.New(tuning, logger)
	for _, m := range reg.DefaultMetrics() {
		s.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		simulator: s,
		scene:     scene,
	}, nil
}

// Run simulates cfg.Frames frames, recording every recordEvery-th one.
func (e *Experiment) Run(ctx context.Context, recordEvery int) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.scene, sim.RunConfig{
		Frames:      e.cfg.Frames,
		RecordEvery: recordEvery,
	})
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Scene() *sim.Scene { return e.scene }

func (e *Experiment) Config() *config.Config { return e.cfg }
