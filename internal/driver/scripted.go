package driver

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

type MotionState uint8

const (
	Waiting MotionState = iota
	Moving
)

func (s MotionState) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Moving:
		return "MOVING"
	}
	return "UNKNOWN"
}

// Timing bounds in ms. Waits drawn before the first move completes use the
// shorter pre-settle range.
type Timing struct {
	PreSettleWait [2]float64
	Wait          [2]float64
	Move          [2]float64
}

func DefaultTiming() Timing {
	return Timing{
		PreSettleWait: [2]float64{400, 1600},
		Wait:          [2]float64{800, 2000},
		Move:          [2]float64{1600, 2400},
	}
}

const (
	DefaultWhiplashGain = 1.5
	wobbleStart         = 0.9
	wobbleAmplitude     = 0.01
	wobbleCycles        = 3
)

// Scripted shuttles a node between the two ends of a horizontal rail with a
// wait/move state machine.
type Scripted struct {
	MinX, MaxX float64
	RailY      float64
	Jitter     float64
	Gain       float64
	Timing     Timing

	state      MotionState
	stateStart float64
	wait       float64
	move       float64
	settled    bool
	started    bool

	pos    dynamo.Vec2
	from   dynamo.Vec2
	target dynamo.Vec2
}

// NewScripted starts the node at x on the rail.
func NewScripted(minX, maxX, railY, x float64) *Scripted {
	return &Scripted{
		MinX:   minX,
		MaxX:   maxX,
		RailY:  railY,
		Gain:   DefaultWhiplashGain,
		Timing: DefaultTiming(),
		state:  Waiting,
		pos:    dynamo.V(x, railY),
	}
}

func (s *Scripted) State() MotionState { return s.state }

// Rest is the un-jittered position computed on the last tick.
func (s *Scripted) Rest() dynamo.Vec2 { return s.pos }

func (s *Scripted) Target() dynamo.Vec2 { return s.target }

// SetBounds applies a resize. State is kept; an in-flight move still lands on
// its old target and the next move uses the new rail.
func (s *Scripted) SetBounds(minX, maxX, railY float64) {
	s.MinX, s.MaxX = minX, maxX
	if s.state == Waiting {
		s.pos.Y = railY
	}
	s.RailY = railY
}

func (s *Scripted) Advance(tick Tick) Frame {
	if !s.started {
		s.started = true
		s.stateStart = tick.Now
		s.wait = s.drawWait(tick.Rand)
	}

	var impulse dynamo.Vec2
	switch {
	case tick.Releasing:
		s.stateStart = tick.Now

	case s.state == Waiting:
		if tick.Now-s.stateStart > s.wait {
			s.beginMove(tick)
		}

	case s.state == Moving:
		elapsed := tick.Now - s.stateStart
		if elapsed >= s.move {
			impulse = s.target.Sub(s.pos).Scale(s.Gain)
			s.pos = s.target
			s.state = Waiting
			s.stateStart = tick.Now
			s.settled = true
			s.wait = s.drawWait(tick.Rand)
		} else {
			s.pos = s.from.Lerp(s.target, Ease(elapsed/s.move))
		}
	}

	out := s.pos
	if s.Jitter > 0 && tick.Rand != nil {
		out = out.Add(dynamo.V(dynamo.Uniform(tick.Rand, s.Jitter), dynamo.Uniform(tick.Rand, s.Jitter)))
	}
	return Frame{Pos: out, Impulse: impulse}
}

func (s *Scripted) beginMove(tick Tick) {
	s.from = s.pos
	// Head for the rail end opposite the side we are resting on.
	tx := s.MaxX
	if s.pos.X-s.MinX > s.MaxX-s.pos.X {
		tx = s.MinX
	}
	s.target = dynamo.V(tx, s.RailY)
	s.move = between(tick.Rand, s.Timing.Move)
	s.state = Moving
	s.stateStart = tick.Now
}

func (s *Scripted) drawWait(rng dynamo.Rand) float64 {
	if s.settled {
		return between(rng, s.Timing.Wait)
	}
	return between(rng, s.Timing.PreSettleWait)
}

func between(rng dynamo.Rand, r [2]float64) float64 {
	if rng == nil {
		return r[0]
	}
	return dynamo.Between(rng, r[0], r[1])
}

// Ease is the quartic move curve with a small decaying wobble over the last
// tenth of progress.
func Ease(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	e := t * t * t * t
	if t > wobbleStart {
		local := (t - wobbleStart) / (1 - wobbleStart)
		e += math.Sin(local*wobbleCycles*math.Pi) * wobbleAmplitude * (1 - local)
	}
	return e
}
