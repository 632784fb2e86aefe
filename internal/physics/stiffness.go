package physics

import "math"

// StiffnessProfile maps a position along the rope (0 at the anchor, 1 at the
// free end) to a correction strength used by the relaxer.
type StiffnessProfile func(t float64) float64

func Uniform(s float64) StiffnessProfile {
	return func(float64) float64 { return s }
}

// LinearRamp interpolates from `from` at the anchor to `to` at the free end.
func LinearRamp(from, to float64) StiffnessProfile {
	return func(t float64) float64 {
		return from + (to-from)*clamp01(t)
	}
}

// Bell peaks at the rope midpoint and falls off to base at the ends.
func Bell(base, peak, width float64) StiffnessProfile {
	if width <= 0 {
		width = 0.2
	}
	return func(t float64) float64 {
		d := clamp01(t) - 0.5
		return base + (peak-base)*math.Exp(-(d*d)/(2*width*width))
	}
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
