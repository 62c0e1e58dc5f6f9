package gesture

import (
	"time"

	"github.com/matzehuels/timegrid/pkg/grid"
)

// =============================================================================
// Pointer Stream - Normalized Platform Input
// =============================================================================

// Phase is the lifecycle stage of a pointer or pinch sample.
type Phase string

// Pointer phases. Platform adapters map their native event types onto these
// four; the machine never branches on platform-specific shapes.
const (
	PhaseBegan     Phase = "began"
	PhaseActive    Phase = "active"
	PhaseEnded     Phase = "ended"
	PhaseCancelled Phase = "cancelled"
)

// PointerEvent is one normalized sample of a single-pointer stream: a
// finger, stylus, or mouse button. Position is in surface pixels,
// Translation is cumulative from the gesture's start, Velocity is in pixels
// per second. Time drives every timing-sensitive transition; the machine
// owns no timers of its own.
type PointerEvent struct {
	Phase       Phase      `json:"phase" bson:"phase"`
	Position    grid.Point `json:"position" bson:"position"`
	Translation grid.Point `json:"translation" bson:"translation"`
	Velocity    grid.Point `json:"velocity" bson:"velocity"`
	Time        time.Time  `json:"time" bson:"time"`
}

// PinchEvent is one normalized sample of a two-pointer scale gesture.
// Scale is relative to the distance between the pointers when the pinch
// began, so every pinch starts at 1.0.
type PinchEvent struct {
	Phase Phase     `json:"phase" bson:"phase"`
	Scale float64   `json:"scale" bson:"scale"`
	Time  time.Time `json:"time" bson:"time"`
}
