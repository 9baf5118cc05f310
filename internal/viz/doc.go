// Package viz renders trajectories in the terminal.
//
//   - [Plot] and [PlotSeries]: line charts of state components or error
//     series, drawn with asciigraph
//   - [PhasePortrait]: one component against another on a braille [Canvas]
//   - [RunSummary] and [Table]: lipgloss panels for run statistics
//   - [Replay]: a Bubble Tea program stepping through a stored trajectory
//   - [WriteSVG]: the same component chart as a standalone SVG figure
//
// # Replay Key Bindings
//
//	Space - Play/Pause
//	←/→   - Step back/forward
//	+/-   - Playback speed
//	g/G   - Jump to start/end
//	q     - Quit
package viz
