package physics

import "github.com/san-kum/ropesim/internal/dynamo"

const (
	DefaultSpringK         = 0.12
	DefaultSpringDamping   = 0.88
	DefaultSpringLookahead = 6
	DefaultSpringGain      = 0.35
)

// AnchorSpring gives the anchor secondary motion: it swings horizontally in
// response to the rope points just below it.
type AnchorSpring struct {
	K         float64
	Damping   float64
	Lookahead int
	Gain      float64

	Offset   float64
	Velocity float64
}

func NewAnchorSpring() *AnchorSpring {
	return &AnchorSpring{
		K:         DefaultSpringK,
		Damping:   DefaultSpringDamping,
		Lookahead: DefaultSpringLookahead,
		Gain:      DefaultSpringGain,
	}
}

// Pull is the weighted mean horizontal displacement of the first Lookahead
// interior points relative to base.X. Weights fall off linearly with
// distance from the anchor.
func (s *AnchorSpring) Pull(r *Rope, base dynamo.Vec2) float64 {
	look := s.Lookahead
	if last := r.EndIndex() - 1; look > last {
		look = last
	}
	if look <= 0 {
		return 0
	}

	var sum, weights float64
	for i := 1; i <= look; i++ {
		w := float64(look-i+1) / float64(look)
		sum += (r.Points[i].Pos.X - base.X) * w
		weights += w
	}
	return sum / weights
}

// Update advances the spring one frame and writes the anchor position.
func (s *AnchorSpring) Update(r *Rope, base dynamo.Vec2) dynamo.Vec2 {
	target := s.Gain * s.Pull(r, base)

	s.Velocity += (target - s.Offset) * s.K
	s.Velocity *= s.Damping
	s.Offset += s.Velocity

	pos := base.Add(dynamo.V(s.Offset, 0))
	r.SetAnchor(pos)
	return pos
}

func (s *AnchorSpring) Reset() {
	s.Offset = 0
	s.Velocity = 0
}
