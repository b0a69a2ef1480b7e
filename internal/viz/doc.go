// Package viz draws planning runs in the terminal.
//
//   - [Canvas]: Braille pixel grid mapped onto the workspace, with one
//     colour per kind of ink
//   - [Scene]: the planar picture of a run, built from a live planner or a
//     saved run
//   - [Live]: Bubble Tea model that grows the tree a batch per frame
//
// # Key Bindings
//
//	Space - Pause/Resume the search
//	R     - Restart from the initial state
//	+/-   - Double/halve the extensions per frame
//	Q     - Quit
package viz
