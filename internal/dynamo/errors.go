package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a point position containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDegenerateRope indicates a rope that cannot be built (no segments).
	ErrDegenerateRope = errors.New("dynamo: rope needs at least one segment")

	// ErrParameterBounds indicates a tuning value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownPreset indicates a scene or preset name with no registration.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.1fms): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
