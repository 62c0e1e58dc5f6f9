// Package render draws the gesture recognizer as a state diagram.
//
// The recognizer publishes its transition table through
// [gesture.Transitions]; this package turns that table into Graphviz DOT
// and rasterizes it. The diagram is a debugging and documentation aid:
// regenerating it after a recognizer change shows exactly which edges
// appeared or vanished.
//
// # Usage
//
//	dot := render.ToDOT(gesture.Transitions(), render.Options{Detailed: true})
//	svg, err := render.SVG(dot)
package render
