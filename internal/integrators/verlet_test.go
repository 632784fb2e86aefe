package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

func TestVerletStepContract(t *testing.T) {
	r, _ := physics.New(dynamo.V(0, 0), dynamo.V(30, 0), 3)
	r.Points[1].Prev = dynamo.V(8, -1) // velocity (2, 1)

	v := NewVerlet(0.5, 0.95, 0, nil)
	v.Step(r)

	want := dynamo.V(10+2*0.95, 0+1*0.95+0.5)
	got := r.Points[1].Pos
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if r.Points[1].Prev != dynamo.V(10, 0) {
		t.Errorf("prev should be the old position, got %+v", r.Points[1].Prev)
	}
}

func TestVerletSkipsPinned(t *testing.T) {
	r, _ := physics.New(dynamo.V(0, 0), dynamo.V(30, 0), 3)
	anchor, end := r.Anchor(), r.End()

	v := NewVerlet(1, 0.96, 0.3, dynamo.NewRand(1))
	for i := 0; i < 10; i++ {
		v.Step(r)
	}
	if r.Anchor() != anchor || r.End() != end {
		t.Error("integrator must not move pinned endpoints")
	}
}

func TestVerletTurbulenceBounded(t *testing.T) {
	r, _ := physics.New(dynamo.V(0, 0), dynamo.V(20, 0), 2)
	v := NewVerlet(0, 0, 0.3, dynamo.NewRand(9))

	for i := 0; i < 200; i++ {
		before := r.Points[1].Pos
		v.Step(r)
		d := r.Points[1].Pos.Sub(before)
		if math.Abs(d.X) > 0.3 || math.Abs(d.Y) > 0.3 {
			t.Fatalf("step %d: turbulence exceeded amplitude: %+v", i, d)
		}
	}
}

func TestReleaseEasing(t *testing.T) {
	rl := NewRelease(dynamo.V(0, 0))

	if rl.Ease(0) != 0 || rl.Ease(1) != 1 {
		t.Errorf("ease endpoints: %f %f", rl.Ease(0), rl.Ease(1))
	}
	if rl.Ease(0.5) <= 0.5 {
		t.Error("ease-out should lead linear progress")
	}
	if !rl.Active(0) || !rl.Active(399) || rl.Active(400) {
		t.Error("release window should cover [0, 400)")
	}
	if got := rl.Progress(200); got != 0.5 {
		t.Errorf("progress at 200ms = %f", got)
	}
}

func TestReleaseIterations(t *testing.T) {
	rl := NewRelease(dynamo.V(0, 0))
	tests := []struct {
		progress float64
		want     int
	}{
		{0, 1},
		{0.01, 1},
		{0.5, 6},
		{1, 12},
	}
	for _, tt := range tests {
		if got := rl.Iterations(12, tt.progress); got != tt.want {
			t.Errorf("Iterations(12, %.2f) = %d, want %d", tt.progress, got, tt.want)
		}
	}
}

func TestStepReleasePullsTowardOrigin(t *testing.T) {
	r, _ := physics.New(dynamo.V(0, 0), dynamo.V(0, 200), 2)
	origin := dynamo.V(100, 100)
	rl := NewRelease(origin)
	v := NewVerlet(0, 0.95, 0, nil)

	before := r.Points[1].Pos.Dist(origin)
	v.StepRelease(r, rl, 0)
	after := r.Points[1].Pos.Dist(origin)

	want := before * (1 - rl.Squeeze)
	if math.Abs(after-want) > 1e-9 {
		t.Errorf("expected distance %.4f after squeeze, got %.4f", want, after)
	}

	// At the end of the window the squeeze is gone.
	pos := r.Points[1].Pos
	r.Points[1].Prev = pos
	v.StepRelease(r, rl, 1)
	if r.Points[1].Pos != pos {
		t.Errorf("no squeeze expected at progress 1, moved to %+v", r.Points[1].Pos)
	}
}
