// Package physics implements the rope model and its position-based solver.
//
//   - [Rope]: ordered Verlet points joined by [Stick] constraints
//   - [Relaxer]: Jakobsen distance-constraint relaxation with a
//     position-dependent [StiffnessProfile]
//   - [AnchorSpring]: damped spring that swings the anchor in reaction to
//     the rope's own motion
//
// Points carry no explicit velocity; it is always Pos - Prev. The anchor
// (index 0) and the free end (last index) are pinned, so the relaxer never
// writes them and motion drivers stay authoritative.
//
// # Example
//
//	r, _ := physics.New(dynamo.V(100, 0), dynamo.V(300, 50), 25)
//	rx := physics.NewRelaxer(12, physics.LinearRamp(0.45, 0.8))
//	rx.Relax(r, rx.Iterations)
package physics
