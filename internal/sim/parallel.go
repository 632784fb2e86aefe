package sim

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// SceneFactory builds a fresh scene seeded from seed.
type SceneFactory func(seed int64, rng dynamo.Rand) (*Scene, error)

// Ensemble runs the same scene under consecutive seeds in parallel. Every
// run gets its own Scene, Simulator, and metrics.
type Ensemble struct {
	tuning    Tuning
	factory   SceneFactory
	metrics   func() []Metric
	numRuns   int
	seedStart int64
	logger    *zap.Logger
}

func NewEnsemble(t Tuning, factory SceneFactory, metrics func() []Metric, numRuns int, seedStart int64, logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{
		tuning:    t,
		factory:   factory,
		metrics:   metrics,
		numRuns:   numRuns,
		seedStart: seedStart,
		logger:    logger,
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + int64(idx)
			rng := dynamo.NewRand(seed)

			sc, err := e.factory(seed, rng)
			if err != nil {
				return fmt.Errorf("build scene for seed %d: %w", seed, err)
			}

			s := New(e.tuning, e.logger)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, sc, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
