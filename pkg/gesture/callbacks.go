package gesture

import "time"

// =============================================================================
// Callbacks - Committed Intents
// =============================================================================

// FeedbackKind labels an advisory feedback moment: a haptic tick, a handle
// highlight, a snap sound. Feedback is fire-and-forget and never affects
// machine state.
type FeedbackKind string

// Feedback kinds, in rough lifecycle order.
const (
	FeedbackHandleGrab FeedbackKind = "handle_grab"
	FeedbackLongPress  FeedbackKind = "long_press"
	FeedbackSnapTick   FeedbackKind = "snap_tick"
	FeedbackCommit     FeedbackKind = "commit"
	FeedbackCancel     FeedbackKind = "cancel"
)

// Callbacks carries the machine's committed intents to the embedding
// application. Mutation callbacks fire only on a successful commit, at most
// one per gesture, with times already normalized by the validator; a
// cancelled gesture fires none of them. Every field is optional and nil
// fields are skipped.
type Callbacks struct {
	// OnEventMove reports a committed drag of a whole event.
	OnEventMove func(id string, start, end time.Time)
	// OnEventResize reports a committed drag of one event edge.
	OnEventResize func(id string, start, end time.Time)
	// OnEventCreate proposes a new event from a canvas draft.
	OnEventCreate func(start, end time.Time)
	// OnEventTap reports a press released without movement on an event,
	// the open-this-event intent.
	OnEventTap func(id string)
	// OnSelectionChange reports the selected ID set, sorted. An empty set
	// is a valid commit and clears the selection.
	OnSelectionChange func(ids []string)
	// OnGestureFeedback surfaces advisory feedback moments.
	OnGestureFeedback func(kind FeedbackKind)
	// OnSessionUpdate observes a snapshot after every machine update.
	OnSessionUpdate func(snap Snapshot)
}

func (c Callbacks) feedback(kind FeedbackKind) {
	if c.OnGestureFeedback != nil {
		c.OnGestureFeedback(kind)
	}
}
