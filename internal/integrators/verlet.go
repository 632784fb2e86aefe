package integrators

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

// Verlet is a position-based integrator: velocity is derived from the
// previous position and damped by Friction each step.
type Verlet struct {
	Gravity    float64
	Friction   float64
	Turbulence float64
	Rand       dynamo.Rand
}

func NewVerlet(gravity, friction, turbulence float64, rng dynamo.Rand) *Verlet {
	return &Verlet{
		Gravity:    gravity,
		Friction:   friction,
		Turbulence: turbulence,
		Rand:       rng,
	}
}

// Step advances every unpinned point of r by one frame.
func (v *Verlet) Step(r *physics.Rope) {
	v.step(r, 1, nil)
}

func (v *Verlet) step(r *physics.Rope, ease float64, squeeze func(dynamo.Vec2) dynamo.Vec2) {
	for i := range r.Points {
		if r.Pinned(i) {
			continue
		}
		p := &r.Points[i]

		vel := p.Pos.Sub(p.Prev).Scale(v.Friction * ease)
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(vel).Add(v.turbulence().Scale(ease))
		p.Pos.Y += v.Gravity * ease

		if squeeze != nil {
			p.Pos = squeeze(p.Pos)
		}
	}
}

func (v *Verlet) turbulence() dynamo.Vec2 {
	if v.Turbulence == 0 || v.Rand == nil {
		return dynamo.Vec2{}
	}
	return dynamo.V(dynamo.Uniform(v.Rand, v.Turbulence), dynamo.Uniform(v.Rand, v.Turbulence))
}

const (
	DefaultReleaseMs       = 400.0
	DefaultReleaseExponent = 1.2
	DefaultReleaseSqueeze  = 0.18
)

// Release blends the untangling window at the start of a run: motion is
// eased in while points are pulled toward a shared squeeze origin, with the
// pull fading to zero as the window closes.
type Release struct {
	DurationMs float64
	Exponent   float64
	Squeeze    float64
	Origin     dynamo.Vec2
}

func NewRelease(origin dynamo.Vec2) *Release {
	return &Release{
		DurationMs: DefaultReleaseMs,
		Exponent:   DefaultReleaseExponent,
		Squeeze:    DefaultReleaseSqueeze,
		Origin:     origin,
	}
}

// Progress maps elapsed ms to [0, 1]; Active reports whether the window is
// still open.
func (rl *Release) Progress(now float64) float64 {
	if rl.DurationMs <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, now/rl.DurationMs))
}

func (rl *Release) Active(now float64) bool {
	return rl.DurationMs > 0 && now < rl.DurationMs
}

// Ease is the ease-out factor 1 - (1-p)^Exponent.
func (rl *Release) Ease(progress float64) float64 {
	return 1 - math.Pow(1-progress, rl.Exponent)
}

// Iterations scales the relaxation count with progress, never below one.
func (rl *Release) Iterations(base int, progress float64) int {
	n := int(math.Round(float64(base) * progress))
	if n < 1 {
		return 1
	}
	return n
}

// StepRelease runs one release-window integration step.
func (v *Verlet) StepRelease(r *physics.Rope, rl *Release, progress float64) {
	pull := (1 - progress) * rl.Squeeze
	v.step(r, rl.Ease(progress), func(p dynamo.Vec2) dynamo.Vec2 {
		return p.Lerp(rl.Origin, pull)
	})
}
