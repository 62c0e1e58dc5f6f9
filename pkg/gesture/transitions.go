package gesture

// =============================================================================
// Recognizer States and Transition Table
// =============================================================================

// State is a node of the recognizer state machine.
type State string

// Recognizer states. Committed and Cancelled are pass-through states: the
// machine reports them and returns to Idle within the same update, so
// callers polling [Machine.State] between updates only ever observe Idle or
// an active state.
const (
	StateIdle      State = "idle"
	StatePressed   State = "pressed"
	StateResizing  State = "resizing"
	StateDragging  State = "dragging"
	StateSelecting State = "selecting"
	StatePanning   State = "panning"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Transition is one edge of the recognizer graph.
type Transition struct {
	From  State  `json:"from"`
	To    State  `json:"to"`
	Cause string `json:"cause"`
}

// Transitions returns the complete recognizer table. Within one From state
// the rows are in evaluation order, which is also the priority order that
// resolves ambiguous gestures: a press near an event edge claims resize
// before anything else, movement past the drag threshold claims its state
// before the long-press delay is consulted, and a bare release falls
// through to the tap row at the bottom.
//
// The machine's behavior and this table are kept honest by tests that
// record every transition the machine makes and check it appears here.
func Transitions() []Transition {
	return []Transition{
		{StateIdle, StatePressed, "pointer began"},

		{StatePressed, StateResizing, "began within the handle threshold of an event edge"},
		{StatePressed, StateDragging, "moved past the drag threshold on an event"},
		{StatePressed, StatePanning, "moved past the drag threshold on canvas, horizontally dominant"},
		{StatePressed, StateSelecting, "moved past the drag threshold on canvas"},
		{StatePressed, StateSelecting, "held unmoved past the long-press delay on an event"},
		{StatePressed, StateDragging, "held unmoved past the long-press delay on canvas: create draft"},
		{StatePressed, StateCancelled, "released: tap"},

		{StateSelecting, StateDragging, "moved past the drag threshold with a long-press selection"},

		{StateResizing, StateCommitted, "released past the commit hysteresis"},
		{StateResizing, StateCancelled, "released within the commit hysteresis: tap"},
		{StateDragging, StateCommitted, "released past the commit hysteresis, or any release of a draft"},
		{StateDragging, StateCancelled, "released within the commit hysteresis: tap"},
		{StateSelecting, StateCommitted, "released"},
		{StatePanning, StateCommitted, "released past the navigation threshold"},
		{StatePanning, StateCancelled, "released short of the navigation threshold"},

		{StatePressed, StateCancelled, "pointer cancelled, pinch began, or target vanished"},
		{StateResizing, StateCancelled, "pointer cancelled, pinch began, or target vanished"},
		{StateDragging, StateCancelled, "pointer cancelled, pinch began, or target vanished"},
		{StateSelecting, StateCancelled, "pointer cancelled, pinch began, or target vanished"},
		{StatePanning, StateCancelled, "pointer cancelled or pinch began"},

		{StateCommitted, StateIdle, "session discarded"},
		{StateCancelled, StateIdle, "session discarded"},
	}
}

// ValidTransition reports whether the table contains a from→to edge.
func ValidTransition(from, to State) bool {
	for _, t := range Transitions() {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// States returns every state in diagram order.
func States() []State {
	return []State{
		StateIdle, StatePressed, StateResizing, StateDragging,
		StateSelecting, StatePanning, StateCommitted, StateCancelled,
	}
}
