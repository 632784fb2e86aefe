// Package driver scripts where rope endpoints go each frame, independent of
// the physics that follows.
package driver

import "github.com/san-kum/ropesim/internal/dynamo"

// Tick carries the frame clock into a driver.
type Tick struct {
	Now       float64 // ms since the scene started
	Releasing bool
	Rand      dynamo.Rand
}

// Frame is a driver's output for one tick. Impulse is non-zero on the frame
// a scripted move lands and should be injected into the rope as whiplash.
type Frame struct {
	Pos     dynamo.Vec2
	Impulse dynamo.Vec2
}

type Driver interface {
	Advance(tick Tick) Frame
}

// Fixed holds a point still.
type Fixed struct {
	Pos dynamo.Vec2
}

func (f *Fixed) Advance(Tick) Frame { return Frame{Pos: f.Pos} }
