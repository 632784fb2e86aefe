package metrics

import (
	"math"

	"github.com/san-kum/ropesim/internal/sim"
)

// AnchorSwing tracks the largest horizontal offset any anchor spring has
// reached.
type AnchorSwing struct {
	name string
	max  float64
}

func NewAnchorSwing() *AnchorSwing {
	return &AnchorSwing{
		name: "anchor_swing",
	}
}

func (a *AnchorSwing) Name() string {
	return a.name
}

func (a *AnchorSwing) Observe(sc *sim.Scene) {
	for _, e := range sc.Entities {
		if e.Spring == nil {
			continue
		}
		a.max = math.Max(a.max, math.Abs(e.Spring.Offset))
	}
}

func (a *AnchorSwing) Value() float64 {
	return a.max
}

func (a *AnchorSwing) Reset() {
	a.max = 0
}

// EndDrift is the largest distance between a rope's end point and the frame
// its driver emitted. Anything but 0 means the physics moved a driven point.
type EndDrift struct {
	name string
	max  float64
}

func NewEndDrift() *EndDrift {
	return &EndDrift{
		name: "end_drift",
	}
}

func (d *EndDrift) Name() string {
	return d.name
}

func (d *EndDrift) Observe(sc *sim.Scene) {
	for _, e := range sc.Entities {
		d.max = math.Max(d.max, e.Rope.End().Pos.Dist(e.LastEnd().Pos))
	}
}

func (d *EndDrift) Value() float64 {
	return d.max
}

func (d *EndDrift) Reset() {
	d.max = 0
}

// Standard returns a fresh set of every metric, in report order.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewStretchError(),
		NewLengthRatio(),
		NewAnchorSwing(),
		NewEndDrift(),
	}
}
