// Package viz renders a running rope scene in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps the simulator once per tick and draws every rope
//   - [Canvas]: Braille-based dot canvas, 2x4 dots per cell
//   - [Camera]: spring-eased pan and zoom
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene from its seed
//	[ ]   - Time travel through recent frames
//	+ -   - Zoom
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show full help
//
// Tuning can be swapped while running by sending a [ReloadMsg].
package viz
