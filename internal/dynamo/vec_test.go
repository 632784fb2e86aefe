package dynamo

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := V(3, 4)
	if a.Len() != 5 {
		t.Errorf("expected len 5, got %f", a.Len())
	}
	if got := a.Add(V(1, 1)); got != V(4, 5) {
		t.Errorf("add: got %+v", got)
	}
	if got := a.Sub(V(3, 4)); got != V(0, 0) {
		t.Errorf("sub: got %+v", got)
	}
	if got := V(0, 0).Lerp(V(10, 20), 0.25); got != V(2.5, 5) {
		t.Errorf("lerp: got %+v", got)
	}
	if V(1, 2).Dist(V(4, 6)) != 5 {
		t.Error("dist should be 5")
	}
}

func TestVecIsFinite(t *testing.T) {
	tests := []struct {
		v    Vec2
		want bool
	}{
		{V(1, 2), true},
		{V(math.NaN(), 0), false},
		{V(0, math.Inf(1)), false},
		{V(math.Inf(-1), math.NaN()), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("IsFinite(%+v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestUniformBounds(t *testing.T) {
	rng := NewRand(7)
	for i := 0; i < 1000; i++ {
		v := Uniform(rng, 0.3)
		if v < -0.3 || v >= 0.3 {
			t.Fatalf("uniform out of bounds: %f", v)
		}
		b := Between(rng, 800, 2000)
		if b < 800 || b >= 2000 {
			t.Fatalf("between out of bounds: %f", b)
		}
	}
}
