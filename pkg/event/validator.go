package event

import "time"

// =============================================================================
// Mutation Operations
// =============================================================================

// Op identifies the kind of mutation a gesture proposes.
type Op int

// Mutation kinds, in the order gestures produce them.
const (
	OpMove Op = iota
	OpResize
	OpCreate
)

// String returns the lowercase operation name.
func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpResize:
		return "resize"
	case OpCreate:
		return "create"
	default:
		return "unknown"
	}
}

// =============================================================================
// Validator - Commit Gate
// =============================================================================

// DefaultMinDuration is the floor for committed event lengths.
const DefaultMinDuration = 15 * time.Minute

// Validator is the single gate between gesture-proposed times and committed
// mutations. It never fails with an error: a proposal either normalizes to
// the nearest valid pair or comes back not-ok, in which case the commit
// silently becomes a no-op.
//
// Resize gestures clamp their moving endpoint live against MinDuration, so
// proposals reaching the Validator from a resize are already valid; Check
// applies the identical normalization and is therefore idempotent rather
// than a second opinion.
type Validator struct {
	MinDuration time.Duration // Shortest committable event length
}

// NewValidator returns a Validator with the given floor. Non-positive
// values fall back to [DefaultMinDuration].
func NewValidator(min time.Duration) Validator {
	if min <= 0 {
		min = DefaultMinDuration
	}
	return Validator{MinDuration: min}
}

// Result is a normalized start/end pair ready to commit.
type Result struct {
	Start    time.Time
	End      time.Time
	Adjusted bool // End was extended to satisfy the duration floor
}

// Check normalizes a proposed range for op.
//
// Ranges whose end does not follow their start come back not-ok for every
// operation. Resize and create ranges shorter than MinDuration extend their
// end to Start+MinDuration, matching the clamp the resize states apply
// live, so Check(Check(...)) always equals Check(...). Moves translate both
// endpoints by the same delta and keep whatever duration the event already
// had, even when that duration sits under the floor.
func (v Validator) Check(op Op, start, end time.Time) (Result, bool) {
	if !end.After(start) {
		return Result{}, false
	}
	if op != OpMove && end.Sub(start) < v.MinDuration {
		return Result{Start: start, End: start.Add(v.MinDuration), Adjusted: true}, true
	}
	return Result{Start: start, End: end}, true
}
