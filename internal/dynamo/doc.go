// Package dynamo provides the numeric primitives shared by the rope engine.
//
// The package is deliberately small:
//
//   - [Vec2]: 2D vector with the handful of operations the solver needs
//   - [Rand]: random source abstraction so runs can be seeded and replayed
//   - domain errors ([ErrInvalidState], [ErrDegenerateRope], ...)
//
// # Determinism
//
// Every random draw in the engine goes through a [Rand]. Two scenes built and
// stepped with sources created by [NewRand] from the same seed produce
// identical point trajectories.
package dynamo
