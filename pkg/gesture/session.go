package gesture

import (
	"time"

	"github.com/matzehuels/timegrid/pkg/grid"
)

// =============================================================================
// Session - In-Flight Gesture Record
// =============================================================================

// Kind classifies what a gesture session proposes.
type Kind string

// Session kinds.
const (
	KindMove   Kind = "move"
	KindResize Kind = "resize"
	KindSelect Kind = "select"
	KindCreate Kind = "create"
)

// Handle names the event edge a resize drags.
type Handle string

// Resize handles.
const (
	HandleNone   Handle = ""
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
)

// Session is the record of one in-flight gesture. It is created when a
// press disambiguates, carries the proposal as the pointer moves, and is
// discarded wholesale on commit or cancel; a cancelled session leaves no
// trace. At most one session proposing a mutation exists per machine at a
// time.
//
// OriginalStart and OriginalEnd freeze the target's times at gesture start;
// ProposedStart and ProposedEnd are recomputed from the live pointer on
// every update and only ever reach the outside world through the commit
// validator.
type Session struct {
	Kind          Kind       `json:"kind"`
	Handle        Handle     `json:"handle,omitempty"`
	TargetID      string     `json:"target_id,omitempty"`
	OriginalStart time.Time  `json:"original_start"`
	OriginalEnd   time.Time  `json:"original_end"`
	ProposedStart time.Time  `json:"proposed_start"`
	ProposedEnd   time.Time  `json:"proposed_end"`
	StartPointer  grid.Point `json:"start_pointer"`
	LastPointer   grid.Point `json:"last_pointer"`
}

// Snapshot is an immutable view of the machine emitted to observers after
// every update. Renderers draw ghost boxes and selection rectangles from
// snapshots instead of sharing mutable state with the machine.
type Snapshot struct {
	State         State     `json:"state"`
	Session       Session   `json:"session"`
	HasSession    bool      `json:"has_session"`
	SelectionRect grid.Rect `json:"selection_rect"`
	Selected      []string  `json:"selected,omitempty"`
}
