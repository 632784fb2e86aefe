package driver

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

const dwellExponent = 2.8

// Drift moves a node continuously: a sway shared by every node plus a
// per-node vertical bob that lingers at its extremes. It draws no random
// numbers, so one Drift may be shared by several ropes.
type Drift struct {
	Base     dynamo.Vec2
	SwayAmp  float64
	SwayFreq float64 // rad/ms
	BobAmp   float64
	BobFreq  float64 // rad/ms
	Phase    float64
}

func (d *Drift) Advance(tick Tick) Frame {
	return Frame{Pos: d.At(tick.Now)}
}

func (d *Drift) At(now float64) dynamo.Vec2 {
	sway := d.SwayAmp * math.Sin(now*d.SwayFreq)
	bob := d.BobAmp * DwellEase(math.Sin(now*d.BobFreq+d.Phase))
	return d.Base.Add(dynamo.V(sway, bob))
}

// DwellEase is sign(s) * (1 - (1-|s|)^2.8): slow build-up, long dwell near +-1.
func DwellEase(s float64) float64 {
	a := math.Min(1, math.Abs(s))
	v := 1 - math.Pow(1-a, dwellExponent)
	if s < 0 {
		return -v
	}
	return v
}
