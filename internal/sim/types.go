package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/integrators"
	"github.com/san-kum/ropesim/internal/physics"
)

// State is a flattened snapshot of every point in a scene: x0, y0, x1, y1...
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Tuning is the full configuration surface of the engine. The anchor spring
// and whiplash constants are visual tuning, not physical quantities.
type Tuning struct {
	Gravity     float64
	Friction    float64
	Turbulence  float64
	Iterations  int
	Stiffness   physics.StiffnessProfile
	MinDistance float64

	ReleaseMs       float64
	ReleaseExponent float64
	ReleaseSqueeze  float64

	SpringK         float64
	SpringDamping   float64
	SpringGain      float64
	SpringLookahead int

	WhiplashGain     float64
	WhiplashFraction float64

	FrameMs float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:          0.35,
		Friction:         0.96,
		Turbulence:       0.15,
		Iterations:       12,
		Stiffness:        physics.LinearRamp(0.45, 0.8),
		MinDistance:      physics.DefaultMinDistance,
		ReleaseMs:        integrators.DefaultReleaseMs,
		ReleaseExponent:  integrators.DefaultReleaseExponent,
		ReleaseSqueeze:   integrators.DefaultReleaseSqueeze,
		SpringK:          physics.DefaultSpringK,
		SpringDamping:    physics.DefaultSpringDamping,
		SpringGain:       physics.DefaultSpringGain,
		SpringLookahead:  physics.DefaultSpringLookahead,
		WhiplashGain:     driver.DefaultWhiplashGain,
		WhiplashFraction: 0.4,
		FrameMs:          1000.0 / 60.0,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.FrameMs <= 0:
		return fmt.Errorf("frame duration must be positive, got %f: %w", t.FrameMs, dynamo.ErrParameterBounds)
	case t.Iterations < 0:
		return fmt.Errorf("iterations must be non-negative, got %d: %w", t.Iterations, dynamo.ErrParameterBounds)
	case t.Friction < 0 || t.Friction > 1:
		return fmt.Errorf("friction must be in [0,1], got %f: %w", t.Friction, dynamo.ErrParameterBounds)
	case t.Turbulence < 0:
		return fmt.Errorf("turbulence must be non-negative, got %f: %w", t.Turbulence, dynamo.ErrParameterBounds)
	case t.WhiplashFraction < 0 || t.WhiplashFraction > 1:
		return fmt.Errorf("whiplash fraction must be in [0,1], got %f: %w", t.WhiplashFraction, dynamo.ErrParameterBounds)
	}
	return nil
}

// Entity is one rope together with the drivers of its two ends. It owns the
// rope exclusively; drivers may be shared when they are pure functions of
// time.
type Entity struct {
	Name   string
	Rope   *physics.Rope
	Anchor driver.Driver
	End    driver.Driver
	Spring *physics.AnchorSpring

	// SqueezeOrigin is where the release window pulls the tangled bundle.
	SqueezeOrigin dynamo.Vec2

	last driver.Frame
}

// LastEnd is the frame the end driver emitted on the most recent step.
func (e *Entity) LastEnd() driver.Frame { return e.last }

// Scene is the simulation context handed to every frame step. Nothing in it
// is shared with other scenes.
type Scene struct {
	Name     string
	Entities []*Entity
	Clock    float64 // ms
	Frame    int
	Rand     dynamo.Rand
	Width    float64
	Height   float64

	// Layout recomputes driver bounds for a new canvas size. Set by scene
	// builders; nil means the scene ignores resizes.
	Layout func(s *Scene, w, h float64)
}

// Resize updates geometry without touching simulation state. Ropes catch up
// with the new bounds over the following frames.
func (s *Scene) Resize(w, h float64) {
	if s.Layout != nil {
		s.Layout(s, w, h)
	}
	s.Width, s.Height = w, h
}

// Dim is the flattened state length.
func (s *Scene) Dim() int {
	n := 0
	for _, e := range s.Entities {
		n += e.Rope.Len() * 2
	}
	return n
}

// Flatten appends every point position to dst[:0].
func (s *Scene) Flatten(dst State) State {
	dst = dst[:0]
	for _, e := range s.Entities {
		dst = e.Rope.AppendState(dst)
	}
	return dst
}

func (s *Scene) Valid() bool {
	for _, e := range s.Entities {
		if !e.Rope.Valid() {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s *Scene)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s *Scene)
}

type RunConfig struct {
	Frames int
	// RecordEvery keeps every Nth frame in Result.States; 0 disables
	// recording.
	RecordEvery int
}

type Result struct {
	States      []State
	Times       []float64
	Metrics     map[string]float64
	FramesTaken int
}
