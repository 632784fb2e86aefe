package physics

import (
	"math"
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
)

func TestAnchorSpringAtRestStaysPut(t *testing.T) {
	r, _ := New(dynamo.V(50, 0), dynamo.V(50, 100), 10)
	s := NewAnchorSpring()
	base := dynamo.V(50, 0)

	for i := 0; i < 50; i++ {
		pos := s.Update(r, base)
		if pos != base {
			t.Fatalf("frame %d: anchor drifted to %+v", i, pos)
		}
	}
}

func TestAnchorSpringFollowsRope(t *testing.T) {
	r, _ := New(dynamo.V(50, 0), dynamo.V(50, 100), 10)
	for i := 1; i < r.EndIndex(); i++ {
		r.Points[i].Pos.X += 10
	}
	s := NewAnchorSpring()
	base := dynamo.V(50, 0)

	for i := 0; i < 400; i++ {
		s.Update(r, base)
	}

	want := s.Gain * 10
	if math.Abs(s.Offset-want) > 1e-3 {
		t.Errorf("offset should settle at %.3f, got %.6f", want, s.Offset)
	}
	if math.Abs(r.Anchor().Pos.X-(50+want)) > 1e-3 {
		t.Errorf("anchor x should follow offset, got %f", r.Anchor().Pos.X)
	}
	if r.Anchor().Pos.Y != 0 {
		t.Error("spring is horizontal only")
	}
}

func TestAnchorSpringPullWeights(t *testing.T) {
	r, _ := New(dynamo.V(0, 0), dynamo.V(0, 100), 10)
	// Only the point next to the anchor is displaced; with lookahead 6 its
	// weight is 6/21 of the total.
	r.Points[1].Pos.X = 21
	s := NewAnchorSpring()
	got := s.Pull(r, dynamo.V(0, 0))
	if math.Abs(got-6) > 1e-9 {
		t.Errorf("expected pull 6, got %f", got)
	}
}

func TestAnchorSpringShortRope(t *testing.T) {
	r, _ := New(dynamo.V(0, 0), dynamo.V(0, 10), 1)
	s := NewAnchorSpring()
	if got := s.Pull(r, dynamo.V(0, 0)); got != 0 {
		t.Errorf("rope without interior points should not pull, got %f", got)
	}
}
