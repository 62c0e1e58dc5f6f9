// Package gesture turns an ambiguous pointer stream into unambiguous
// calendar intents.
//
// # Overview
//
// A press on a time grid could be the start of a tap, a long-press
// selection, a whole-event drag, an edge resize, a rubber band, a
// navigation pan, or a pinch. [Machine] resolves that ambiguity with an
// explicit state machine instead of scattered widget callbacks: every
// pointer sample advances the machine through the states in [Transitions],
// and the embedding application learns only about finished intents through
// [Callbacks].
//
// # Disambiguation
//
// A press near an event's top or bottom edge arms a resize immediately.
// Otherwise the press waits: movement past the drag threshold turns it
// into a whole-event drag, a horizontal canvas drag into a navigation pan,
// any other canvas drag into a rubber band, and a hold past the long-press
// delay into a selection on an event or a create draft on empty canvas.
// A release before any of that is a tap. The priority is fixed: movement
// beats the long-press clock, and the tap is the fallback when nothing
// else claimed the gesture, so an ambiguous gesture always resolves to the
// lowest-risk interpretation.
//
// # Safety
//
// Partial gestures never leak. Proposed times live only in the [Session]
// and reach the outside exclusively through the commit validator; a cancel
// at any point, from the platform, from a pinch starting, or from the
// target event vanishing mid-gesture, discards the session wholesale with
// no callback fired. A release whose total travel stays under the commit
// hysteresis resolves as a tap rather than a micro-mutation.
//
// # Concurrency
//
// The machine is single-threaded by design: all methods must be called
// from one goroutine, typically the surface's input loop. It owns no
// timers; time enters only through sample timestamps and [Machine.Tick].
package gesture
