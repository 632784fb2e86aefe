package physics

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Point is a Verlet particle. Velocity is implicit: Pos - Prev.
type Point struct {
	Pos  dynamo.Vec2
	Prev dynamo.Vec2
}

func (p Point) Velocity() dynamo.Vec2 { return p.Pos.Sub(p.Prev) }

// Stick keeps points A and B at Length apart (approximately).
type Stick struct {
	A, B   int
	Length float64
}

// Rope is an ordered chain of points. Index 0 is the anchor, the last index
// is the free end. Both are pinned by default so the drivers stay
// authoritative over them.
type Rope struct {
	Points []Point
	Sticks []Stick
	pinned []bool
}

// New builds a straight rope from anchor to end with rest length
// dist/segments per stick.
func New(anchor, end dynamo.Vec2, segments int) (*Rope, error) {
	if segments < 1 {
		return nil, dynamo.ErrDegenerateRope
	}
	return NewWithLength(anchor, end, segments, anchor.Dist(end)/float64(segments))
}

// NewWithLength builds a straight rope whose sticks have the given rest
// length regardless of the anchor-to-end distance.
func NewWithLength(anchor, end dynamo.Vec2, segments int, length float64) (*Rope, error) {
	if segments < 1 {
		return nil, dynamo.ErrDegenerateRope
	}

	n := segments + 1
	r := &Rope{
		Points: make([]Point, n),
		Sticks: make([]Stick, segments),
		pinned: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		p := anchor.Lerp(end, float64(i)/float64(segments))
		r.Points[i] = Point{Pos: p, Prev: p}
	}
	for i := 0; i < segments; i++ {
		r.Sticks[i] = Stick{A: i, B: i + 1, Length: length}
	}
	r.pinned[0] = true
	r.pinned[n-1] = true
	return r, nil
}

func (r *Rope) Len() int          { return len(r.Points) }
func (r *Rope) EndIndex() int     { return len(r.Points) - 1 }
func (r *Rope) Anchor() Point     { return r.Points[0] }
func (r *Rope) End() Point        { return r.Points[len(r.Points)-1] }
func (r *Rope) Pinned(i int) bool { return r.pinned[i] }

func (r *Rope) Pin(i int, pinned bool) { r.pinned[i] = pinned }

// SetAnchor moves the anchor, keeping its implicit velocity.
func (r *Rope) SetAnchor(pos dynamo.Vec2) { r.move(0, pos) }

// SetEnd moves the free end, keeping its implicit velocity.
func (r *Rope) SetEnd(pos dynamo.Vec2) { r.move(r.EndIndex(), pos) }

func (r *Rope) move(i int, pos dynamo.Vec2) {
	r.Points[i].Prev = r.Points[i].Pos
	r.Points[i].Pos = pos
}

// Length is the current polyline length.
func (r *Rope) Length() float64 {
	total := 0.0
	for i := 1; i < len(r.Points); i++ {
		total += r.Points[i].Pos.Dist(r.Points[i-1].Pos)
	}
	return total
}

// RestLength is the sum of stick rest lengths.
func (r *Rope) RestLength() float64 {
	total := 0.0
	for _, s := range r.Sticks {
		total += s.Length
	}
	return total
}

// MaxStretch returns the largest relative constraint error |d-L|/L.
func (r *Rope) MaxStretch() float64 {
	worst := 0.0
	for _, s := range r.Sticks {
		if s.Length == 0 {
			continue
		}
		d := r.Points[s.B].Pos.Dist(r.Points[s.A].Pos)
		worst = math.Max(worst, math.Abs(d-s.Length)/s.Length)
	}
	return worst
}

// TotalStretch sums |d-L|/L over all sticks.
func (r *Rope) TotalStretch() float64 {
	total := 0.0
	for _, s := range r.Sticks {
		if s.Length == 0 {
			continue
		}
		d := r.Points[s.B].Pos.Dist(r.Points[s.A].Pos)
		total += math.Abs(d-s.Length) / s.Length
	}
	return total
}

// Tangle scatters every unpinned point around origin, producing the chaotic
// bundle the release window untangles. Prev is set equal to Pos so the
// bundle starts at rest.
func (r *Rope) Tangle(rng dynamo.Rand, origin dynamo.Vec2, spread float64) {
	for i := range r.Points {
		if r.pinned[i] {
			continue
		}
		p := origin.Add(dynamo.V(dynamo.Uniform(rng, spread), dynamo.Uniform(rng, spread)))
		r.Points[i] = Point{Pos: p, Prev: p}
	}
}

// ApplyImpulse adds v to the implicit velocity of the anchor-side fraction of
// the rope, tapered linearly from full strength next to the anchor to zero at
// the fraction boundary.
func (r *Rope) ApplyImpulse(v dynamo.Vec2, fraction float64) {
	last := r.EndIndex()
	if last < 2 || fraction <= 0 {
		return
	}
	limit := fraction * float64(last)
	for i := 1; i < last; i++ {
		pos := float64(i - 1)
		if pos >= limit {
			break
		}
		if r.pinned[i] {
			continue
		}
		taper := 1 - pos/limit
		r.Points[i].Prev = r.Points[i].Prev.Sub(v.Scale(taper))
	}
}

// Valid reports whether every point coordinate is finite.
func (r *Rope) Valid() bool {
	for _, p := range r.Points {
		if !p.Pos.IsFinite() || !p.Prev.IsFinite() {
			return false
		}
	}
	return true
}

// AppendState appends x,y of every point to dst.
func (r *Rope) AppendState(dst []float64) []float64 {
	for _, p := range r.Points {
		dst = append(dst, p.Pos.X, p.Pos.Y)
	}
	return dst
}
