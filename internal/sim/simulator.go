package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/integrators"
	"github.com/san-kum/ropesim/internal/physics"
)

// Simulator runs the per-frame pipeline: drivers, anchor spring, Verlet
// integration, constraint relaxation. It is not safe for concurrent use; give
// each goroutine its own Simulator and Scene.
type Simulator struct {
	tuning    Tuning
	verlet    *integrators.Verlet
	release   *integrators.Release
	relaxer   *physics.Relaxer
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(t Tuning, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
	s.SetTuning(t)
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Tuning() Tuning { return s.tuning }

// SetTuning swaps the constants used from the next frame on. Scene state is
// kept.
func (s *Simulator) SetTuning(t Tuning) {
	s.tuning = t
	s.verlet = integrators.NewVerlet(t.Gravity, t.Friction, t.Turbulence, nil)
	s.release = &integrators.Release{
		DurationMs: t.ReleaseMs,
		Exponent:   t.ReleaseExponent,
		Squeeze:    t.ReleaseSqueeze,
	}
	stiffness := t.Stiffness
	if stiffness == nil {
		stiffness = physics.Uniform(1)
	}
	s.relaxer = physics.NewRelaxer(t.Iterations, stiffness)
	if t.MinDistance > 0 {
		s.relaxer.MinDistance = t.MinDistance
	}
}

// Step advances the scene by one frame.
func (s *Simulator) Step(sc *Scene) {
	t := s.tuning
	now := sc.Clock
	releasing := s.release.Active(now)
	progress := s.release.Progress(now)

	iterations := t.Iterations
	if releasing {
		iterations = s.release.Iterations(t.Iterations, progress)
	}

	tick := driver.Tick{Now: now, Releasing: releasing, Rand: sc.Rand}
	s.verlet.Rand = sc.Rand

	for _, e := range sc.Entities {
		base := e.Anchor.Advance(tick).Pos

		end := e.End.Advance(tick)
		e.Rope.SetEnd(end.Pos)
		e.last = end
		if end.Impulse != (dynamo.Vec2{}) {
			e.Rope.ApplyImpulse(end.Impulse, t.WhiplashFraction)
		}

		if e.Spring != nil {
			s.tuneSpring(e.Spring)
			e.Spring.Update(e.Rope, base)
		} else {
			e.Rope.SetAnchor(base)
		}

		if releasing {
			s.release.Origin = e.SqueezeOrigin
			s.verlet.StepRelease(e.Rope, s.release, progress)
		} else {
			s.verlet.Step(e.Rope)
		}

		s.relaxer.Relax(e.Rope, iterations)
	}

	sc.Clock += t.FrameMs
	sc.Frame++
}

func (s *Simulator) tuneSpring(sp *physics.AnchorSpring) {
	sp.K = s.tuning.SpringK
	sp.Damping = s.tuning.SpringDamping
	sp.Gain = s.tuning.SpringGain
	sp.Lookahead = s.tuning.SpringLookahead
}

func (s *Simulator) validate(sc *Scene, cfg RunConfig) error {
	if sc == nil || len(sc.Entities) == 0 {
		return fmt.Errorf("scene has no entities")
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must be non-negative, got %d", cfg.RecordEvery)
	}
	return s.tuning.Validate()
}

// Run steps the scene cfg.Frames times. A non-finite point aborts the run
// with a *dynamo.SimulationError wrapping dynamo.ErrInvalidState; the partial
// result is still returned.
func (s *Simulator) Run(ctx context.Context, sc *Scene, cfg RunConfig) (*Result, error) {
	if err := s.validate(sc, cfg); err != nil {
		return nil, err
	}

	capacity := 0
	if cfg.RecordEvery > 0 {
		capacity = cfg.Frames/cfg.RecordEvery + 1
	}
	result := &Result{
		States:  make([]State, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.RecordEvery > 0 {
		result.States = append(result.States, sc.Flatten(nil))
		result.Times = append(result.Times, sc.Clock)
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.Step(sc)
		result.FramesTaken++

		if !sc.Valid() {
			s.logger.Warn("scene diverged", zap.String("scene", sc.Name), zap.Int("frame", sc.Frame))
			s.collect(result)
			return result, &dynamo.SimulationError{Frame: sc.Frame, Time: sc.Clock, Wrapped: dynamo.ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(sc)
		}
		for _, obs := range s.observers {
			obs.OnFrame(sc)
		}

		if cfg.RecordEvery > 0 && sc.Frame%cfg.RecordEvery == 0 {
			result.States = append(result.States, sc.Flatten(nil))
			result.Times = append(result.Times, sc.Clock)
		}
	}

	s.collect(result)
	s.logger.Debug("run complete",
		zap.String("scene", sc.Name),
		zap.Int("frames", result.FramesTaken),
		zap.Float64("clock_ms", sc.Clock))
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback streams frames to fn until it returns false, the frame
// budget is spent, or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, sc *Scene, frames int, fn func(*Scene) bool) error {
	if err := s.validate(sc, RunConfig{Frames: frames}); err != nil {
		return err
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step(sc)

		if !sc.Valid() {
			return &dynamo.SimulationError{Frame: sc.Frame, Time: sc.Clock, Wrapped: dynamo.ErrInvalidState}
		}
		if !fn(sc) {
			return nil
		}
	}

	return nil
}
