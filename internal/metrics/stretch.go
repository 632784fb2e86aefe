package metrics

import (
	"math"

	"github.com/san-kum/ropesim/internal/sim"
)

// StretchError averages, over observed frames, the worst relative
// constraint error |d-L|/L found in any rope of the scene.
type StretchError struct {
	name    string
	sum     float64
	samples int
}

func NewStretchError() *StretchError {
	return &StretchError{
		name: "stretch_error",
	}
}

func (s *StretchError) Name() string { return s.name }

func (s *StretchError) Observe(sc *sim.Scene) {
	s.sum += Worst(sc)
	s.samples++
}

func (s *StretchError) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *StretchError) Reset() {
	s.sum = 0
	s.samples = 0
}

// Worst is the largest MaxStretch across the scene's ropes.
func Worst(sc *sim.Scene) float64 {
	worst := 0.0
	for _, e := range sc.Entities {
		worst = math.Max(worst, e.Rope.MaxStretch())
	}
	return worst
}

// LengthRatio reports Length/RestLength summed over every rope on the last
// observed frame. Slack ropes read below 1, stretched ones above.
type LengthRatio struct {
	name  string
	value float64
}

func NewLengthRatio() *LengthRatio {
	return &LengthRatio{
		name: "length_ratio",
	}
}

func (l *LengthRatio) Name() string { return l.name }

func (l *LengthRatio) Observe(sc *sim.Scene) {
	length, rest := 0.0, 0.0
	for _, e := range sc.Entities {
		length += e.Rope.Length()
		rest += e.Rope.RestLength()
	}
	if rest == 0 {
		l.value = 0
		return
	}
	l.value = length / rest
}

func (l *LengthRatio) Value() float64 { return l.value }

func (l *LengthRatio) Reset() { l.value = 0 }
