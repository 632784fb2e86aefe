package physics

// DefaultMinDistance is the separation below which a stick is skipped.
const DefaultMinDistance = 1e-3

// Relaxer enforces stick lengths with Jakobsen-style iterative relaxation.
// Convergence is approximate; more iterations mean tighter sticks.
type Relaxer struct {
	Iterations  int
	Stiffness   StiffnessProfile
	MinDistance float64
}

func NewRelaxer(iterations int, stiffness StiffnessProfile) *Relaxer {
	return &Relaxer{
		Iterations:  iterations,
		Stiffness:   stiffness,
		MinDistance: DefaultMinDistance,
	}
}

// Relax runs the given number of sweeps over the sticks in rope order.
// Pinned points are never written.
func (rx *Relaxer) Relax(r *Rope, iterations int) {
	n := len(r.Sticks)
	if n == 0 {
		return
	}
	minDist := rx.MinDistance
	if minDist <= 0 {
		minDist = DefaultMinDistance
	}

	stiff := make([]float64, n)
	for i := range stiff {
		stiff[i] = 1
		if rx.Stiffness != nil {
			stiff[i] = rx.Stiffness((float64(i) + 0.5) / float64(n))
		}
	}

	for it := 0; it < iterations; it++ {
		for i, s := range r.Sticks {
			p0 := &r.Points[s.A]
			p1 := &r.Points[s.B]

			delta := p1.Pos.Sub(p0.Pos)
			dist := delta.Len()
			if dist < minDist {
				continue
			}

			c := (s.Length - dist) / dist / 2 * stiff[i]
			shift := delta.Scale(c)

			if !r.pinned[s.A] {
				p0.Pos = p0.Pos.Sub(shift)
			}
			if !r.pinned[s.B] {
				p1.Pos = p1.Pos.Add(shift)
			}
		}
	}
}
