package gesture

import (
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

var (
	gridDay = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	wall    = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
)

func at(h, m int) time.Time {
	return time.Date(2026, time.March, 9, h, m, 0, 0, time.UTC)
}

type mutation struct {
	id         string
	start, end time.Time
}

// rig wires a machine to recording callbacks over a three-event day:
// early 08:00-09:00, meeting 10:00-11:00, short 14:00-14:30, all full
// width on a 300px surface at 60px per hour.
type rig struct {
	machine *Machine
	view    *viewmode.Controller

	moves      []mutation
	resizes    []mutation
	creates    []mutation
	taps       []string
	selections [][]string
	feedback   []FeedbackKind
	navigated  []time.Time
	modes      []viewmode.Mode
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{}

	view, err := viewmode.NewController(viewmode.Options{
		Mode:   viewmode.ModeDay,
		Anchor: gridDay,
	}, viewmode.Callbacks{
		OnNavigate:   func(anchor time.Time) { r.navigated = append(r.navigated, anchor) },
		OnModeChange: func(m viewmode.Mode) { r.modes = append(r.modes, m) },
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	view.SetWidth(300)
	r.view = view

	mapper := grid.NewMapper(60, 15*time.Minute)
	machine, err := NewMachine(mapper, view, Options{}, Callbacks{
		OnEventMove: func(id string, s, e time.Time) {
			r.moves = append(r.moves, mutation{id, s, e})
		},
		OnEventResize: func(id string, s, e time.Time) {
			r.resizes = append(r.resizes, mutation{id, s, e})
		},
		OnEventCreate: func(s, e time.Time) {
			r.creates = append(r.creates, mutation{"", s, e})
		},
		OnEventTap: func(id string) { r.taps = append(r.taps, id) },
		OnSelectionChange: func(ids []string) {
			r.selections = append(r.selections, slices.Clone(ids))
		},
		OnGestureFeedback: func(k FeedbackKind) { r.feedback = append(r.feedback, k) },
	})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	r.machine = machine

	events := []event.Event{
		{ID: "early", Title: "Early", Start: at(8, 0), End: at(9, 0)},
		{ID: "meeting", Title: "Meeting", Start: at(10, 0), End: at(11, 0)},
		{ID: "short", Title: "Short", Start: at(14, 0), End: at(14, 30)},
	}
	day := layout.NewEngine(mapper, 300).LayoutDay(events, gridDay)
	machine.SetDay(day, events)
	return r
}

func (r *rig) sample(phase Phase, x, y float64, offset time.Duration) PointerEvent {
	return PointerEvent{
		Phase:    phase,
		Position: grid.Point{X: x, Y: y},
		Time:     wall.Add(offset),
	}
}

func (r *rig) press(x, y float64, offset time.Duration) {
	r.machine.Handle(r.sample(PhaseBegan, x, y, offset))
}

func (r *rig) move(x, y float64, offset time.Duration) {
	r.machine.Handle(r.sample(PhaseActive, x, y, offset))
}

func (r *rig) release(x, y float64, offset time.Duration) {
	r.machine.Handle(r.sample(PhaseEnded, x, y, offset))
}

func (r *rig) mutations() int {
	return len(r.moves) + len(r.resizes) + len(r.creates)
}

// -----------------------------------------------------------------------------
// Taps
// -----------------------------------------------------------------------------

func TestTapOpensEvent(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0) // meeting body, clear of both edges
	r.release(150, 630, 80*time.Millisecond)

	if !slices.Equal(r.taps, []string{"meeting"}) {
		t.Errorf("taps = %v, want [meeting]", r.taps)
	}
	if r.mutations() != 0 {
		t.Errorf("a tap must not mutate, got %d mutations", r.mutations())
	}
	if got := r.machine.State(); got != StateIdle {
		t.Errorf("state after tap = %v, want idle", got)
	}
}

func TestTapOnCanvasIsSilent(t *testing.T) {
	r := newRig(t)

	r.press(150, 300, 0) // 05:00, empty canvas
	r.release(151, 301, 90*time.Millisecond)

	if len(r.taps) != 0 || r.mutations() != 0 || len(r.selections) != 0 {
		t.Errorf("canvas tap fired callbacks: taps=%v mutations=%d selections=%v",
			r.taps, r.mutations(), r.selections)
	}
}

// -----------------------------------------------------------------------------
// Resize
// -----------------------------------------------------------------------------

func TestPressNearEdgeArmsResize(t *testing.T) {
	r := newRig(t)

	r.press(150, 605, 0) // 5px into meeting's top edge
	if got := r.machine.State(); got != StateResizing {
		t.Fatalf("state = %v, want resizing", got)
	}
	snap := r.machine.Snapshot()
	if snap.Session.Handle != HandleTop || snap.Session.TargetID != "meeting" {
		t.Errorf("session = %+v, want top handle on meeting", snap.Session)
	}
	if !slices.Contains(r.feedback, FeedbackHandleGrab) {
		t.Error("grabbing a handle should give feedback")
	}

	// Releasing without travel is still just a tap.
	r.release(150, 605, 90*time.Millisecond)
	if len(r.resizes) != 0 || !slices.Equal(r.taps, []string{"meeting"}) {
		t.Errorf("edge tap resolved wrong: resizes=%v taps=%v", r.resizes, r.taps)
	}
}

// Dragging the bottom handle above the duration floor pins the end at
// start+minimum; the start never moves.
func TestResizeBottomClampsAtFloor(t *testing.T) {
	r := newRig(t)

	r.press(150, 869, 0) // short's bottom edge (box 840-870)
	if r.machine.Snapshot().Session.Handle != HandleBottom {
		t.Fatalf("expected bottom handle, got %+v", r.machine.Snapshot().Session)
	}

	r.move(150, 845, 50*time.Millisecond) // 14:05, under the 15m floor
	snap := r.machine.Snapshot()
	if !snap.Session.ProposedEnd.Equal(at(14, 15)) {
		t.Errorf("live proposal end = %v, want 14:15", snap.Session.ProposedEnd)
	}

	r.release(150, 845, 100*time.Millisecond)
	want := mutation{"short", at(14, 0), at(14, 15)}
	if len(r.resizes) != 1 || r.resizes[0] != want {
		t.Errorf("resizes = %v, want [%+v]", r.resizes, want)
	}
}

func TestResizeTopHandle(t *testing.T) {
	r := newRig(t)

	r.press(150, 602, 0)                  // meeting top edge
	r.move(150, 570, 60*time.Millisecond) // 09:30
	r.release(150, 570, 120*time.Millisecond)

	want := mutation{"meeting", at(9, 30), at(11, 0)}
	if len(r.resizes) != 1 || r.resizes[0] != want {
		t.Errorf("resizes = %v, want [%+v]", r.resizes, want)
	}
}

// -----------------------------------------------------------------------------
// Drag Move
// -----------------------------------------------------------------------------

func TestDragMovePreservesDuration(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0) // meeting body
	r.move(150, 700, 60*time.Millisecond)
	if got := r.machine.State(); got != StateDragging {
		t.Fatalf("state = %v, want dragging", got)
	}
	r.release(150, 700, 150*time.Millisecond)

	// 70px of travel lands the start on 11:10, snapping to 11:15.
	want := mutation{"meeting", at(11, 15), at(12, 15)}
	if len(r.moves) != 1 || r.moves[0] != want {
		t.Errorf("moves = %v, want [%+v]", r.moves, want)
	}
	if len(r.taps) != 0 {
		t.Errorf("a committed drag is not a tap, got %v", r.taps)
	}
}

// A drag that wanders past the threshold but releases back at its origin
// commits nothing.
func TestSubHysteresisReleaseIsTap(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.move(150, 645, 40*time.Millisecond) // crosses the drag threshold
	r.move(150, 633, 80*time.Millisecond)
	r.release(150, 633, 120*time.Millisecond)

	if r.mutations() != 0 {
		t.Errorf("sub-hysteresis release mutated: moves=%v", r.moves)
	}
	if !slices.Equal(r.taps, []string{"meeting"}) {
		t.Errorf("taps = %v, want [meeting]", r.taps)
	}
}

// -----------------------------------------------------------------------------
// Long Press
// -----------------------------------------------------------------------------

func TestLongPressSelectsWithoutMoving(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.machine.Tick(wall.Add(600 * time.Millisecond))

	if got := r.machine.State(); got != StateSelecting {
		t.Fatalf("state = %v, want selecting", got)
	}
	if len(r.selections) != 1 || !slices.Equal(r.selections[0], []string{"meeting"}) {
		t.Fatalf("selections = %v, want [[meeting]]", r.selections)
	}
	if !slices.Contains(r.feedback, FeedbackLongPress) {
		t.Error("long press should give feedback")
	}

	r.release(150, 630, 700*time.Millisecond)
	if r.mutations() != 0 {
		t.Errorf("long-press select must not mutate, got %d", r.mutations())
	}
	if len(r.selections) != 1 {
		t.Errorf("release should not re-report the selection, got %v", r.selections)
	}
}

func TestLongPressThenDragMoves(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.machine.Tick(wall.Add(600 * time.Millisecond))
	r.move(150, 700, 700*time.Millisecond)
	if got := r.machine.State(); got != StateDragging {
		t.Fatalf("state = %v, want dragging after selection starts travelling", got)
	}
	r.release(150, 700, 800*time.Millisecond)

	if len(r.moves) != 1 || r.moves[0].id != "meeting" {
		t.Errorf("moves = %v, want one meeting move", r.moves)
	}
}

// Movement past the drag threshold cancels a pending long press even when
// the sample arrives after the delay elapsed.
func TestMovementBeatsLongPress(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.move(150, 680, 550*time.Millisecond)

	if got := r.machine.State(); got != StateDragging {
		t.Errorf("state = %v, want dragging", got)
	}
	if len(r.selections) != 0 {
		t.Errorf("no selection should fire, got %v", r.selections)
	}
}

func TestCanvasLongPressCreatesDraft(t *testing.T) {
	r := newRig(t)

	r.press(150, 300, 0) // 05:00 on empty canvas
	r.machine.Tick(wall.Add(600 * time.Millisecond))

	snap := r.machine.Snapshot()
	if snap.State != StateDragging || snap.Session.Kind != KindCreate {
		t.Fatalf("snapshot = %+v, want a create draft dragging", snap)
	}

	// A stationary release commits the draft; the long press already
	// confirmed intent.
	r.release(150, 300, 700*time.Millisecond)
	want := mutation{"", at(5, 0), at(5, 30)}
	if len(r.creates) != 1 || r.creates[0] != want {
		t.Errorf("creates = %v, want [%+v]", r.creates, want)
	}
}

func TestCanvasLongPressDraftDrags(t *testing.T) {
	r := newRig(t)

	r.press(150, 300, 0)
	r.machine.Tick(wall.Add(600 * time.Millisecond))
	r.move(150, 420, 700*time.Millisecond) // drag draft to 07:00
	r.release(150, 420, 800*time.Millisecond)

	want := mutation{"", at(7, 0), at(7, 30)}
	if len(r.creates) != 1 || r.creates[0] != want {
		t.Errorf("creates = %v, want [%+v]", r.creates, want)
	}
}

// Holding to the delay and releasing in the same quiet stream still counts
// as a long press, not a tap.
func TestReleaseAfterDelayArmsLongPress(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.release(150, 630, 800*time.Millisecond)

	if len(r.taps) != 0 {
		t.Errorf("late release should not tap, got %v", r.taps)
	}
	if len(r.selections) != 1 {
		t.Errorf("late release should select, got %v", r.selections)
	}
}

// -----------------------------------------------------------------------------
// Rubber Band
// -----------------------------------------------------------------------------

func TestRubberBandSelectsCovered(t *testing.T) {
	r := newRig(t)

	// Vertical drag on canvas from above early, down over meeting.
	r.press(20, 470, 0)
	r.move(25, 650, 60*time.Millisecond)
	if got := r.machine.State(); got != StateSelecting {
		t.Fatalf("state = %v, want selecting", got)
	}
	r.release(25, 650, 150*time.Millisecond)

	if len(r.selections) != 1 || !slices.Equal(r.selections[0], []string{"early", "meeting"}) {
		t.Errorf("selections = %v, want [[early meeting]]", r.selections)
	}
	if r.mutations() != 0 {
		t.Error("rubber band must not mutate")
	}
}

func TestRubberBandEmptyCommit(t *testing.T) {
	r := newRig(t)

	r.press(20, 100, 0)
	r.move(40, 200, 50*time.Millisecond)
	r.release(40, 200, 100*time.Millisecond)

	if len(r.selections) != 1 || len(r.selections[0]) != 0 {
		t.Errorf("selections = %v, want one empty commit", r.selections)
	}
}

// -----------------------------------------------------------------------------
// Pan and Pinch
// -----------------------------------------------------------------------------

func TestHorizontalCanvasPanNavigates(t *testing.T) {
	r := newRig(t)

	r.press(200, 300, 0)
	r.move(80, 310, 60*time.Millisecond) // horizontally dominant
	if got := r.machine.State(); got != StatePanning {
		t.Fatalf("state = %v, want panning", got)
	}
	r.release(60, 310, 150*time.Millisecond) // 140px of 300 ≥ 30%

	if len(r.navigated) != 1 || !r.navigated[0].Equal(gridDay.AddDate(0, 0, 1)) {
		t.Errorf("navigated = %v, want next day", r.navigated)
	}
	if r.mutations() != 0 || len(r.selections) != 0 {
		t.Error("a pan must not mutate or select")
	}
}

func TestShortPanSnapsBack(t *testing.T) {
	r := newRig(t)

	r.press(200, 300, 0)
	r.move(160, 305, 50*time.Millisecond)
	r.release(150, 305, 100*time.Millisecond) // 50px < 30% and no flick

	if len(r.navigated) != 0 {
		t.Errorf("short pan navigated: %v", r.navigated)
	}
}

func TestFlickPanNavigatesBackward(t *testing.T) {
	r := newRig(t)

	r.press(100, 300, 0)
	r.move(140, 305, 40*time.Millisecond)
	ev := r.sample(PhaseEnded, 150, 305, 80*time.Millisecond)
	ev.Velocity = grid.Point{X: 900}
	r.machine.Handle(ev)

	if len(r.navigated) != 1 || !r.navigated[0].Equal(gridDay.AddDate(0, 0, -1)) {
		t.Errorf("navigated = %v, want previous day", r.navigated)
	}
}

func TestPinchCancelsSessionAndZooms(t *testing.T) {
	r := newRig(t)
	r.view.SetMode(viewmode.ModeMonth)
	r.modes = nil

	// Mid-drag, a second finger lands.
	r.press(150, 630, 0)
	r.move(150, 700, 50*time.Millisecond)
	r.machine.HandlePinch(PinchEvent{Phase: PhaseBegan, Scale: 1, Time: wall.Add(60 * time.Millisecond)})

	if got := r.machine.State(); got != StateIdle {
		t.Fatalf("state after pinch began = %v, want idle", got)
	}

	r.machine.HandlePinch(PinchEvent{Phase: PhaseActive, Scale: 1.6, Time: wall.Add(100 * time.Millisecond)})
	r.machine.HandlePinch(PinchEvent{Phase: PhaseActive, Scale: 1.6, Time: wall.Add(300 * time.Millisecond)})
	r.machine.HandlePinch(PinchEvent{Phase: PhaseEnded, Time: wall.Add(350 * time.Millisecond)})

	if !slices.Equal(r.modes, []viewmode.Mode{viewmode.ModeWeek}) {
		t.Errorf("modes = %v, want [week]", r.modes)
	}

	// The abandoned pointer stream stays inert.
	r.release(150, 700, 400*time.Millisecond)
	if r.mutations() != 0 {
		t.Errorf("cancelled session mutated: %v moves", r.moves)
	}
}

// -----------------------------------------------------------------------------
// Interruption
// -----------------------------------------------------------------------------

func TestPointerCancelDiscardsSession(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.move(150, 700, 50*time.Millisecond)
	r.machine.Handle(r.sample(PhaseCancelled, 150, 700, 80*time.Millisecond))

	if got := r.machine.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	if r.mutations() != 0 {
		t.Error("cancelled gesture mutated")
	}
	if !slices.Contains(r.feedback, FeedbackCancel) {
		t.Error("cancel should give feedback")
	}
}

func TestStaleTargetForceCancels(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.move(150, 700, 50*time.Millisecond)

	// The meeting vanishes in a refresh mid-gesture.
	remaining := []event.Event{{ID: "early", Start: at(8, 0), End: at(9, 0)}}
	day := layout.NewEngine(grid.NewMapper(60, 15*time.Minute), 300).LayoutDay(remaining, gridDay)
	r.machine.SetDay(day, remaining)

	if got := r.machine.State(); got != StateIdle {
		t.Errorf("state = %v, want idle after target vanished", got)
	}

	r.release(150, 700, 100*time.Millisecond)
	if r.mutations() != 0 {
		t.Error("stale target still committed")
	}
}

func TestSecondPressIgnored(t *testing.T) {
	r := newRig(t)

	r.press(150, 630, 0)
	r.press(20, 100, 30*time.Millisecond) // ignored: a gesture is live
	r.release(150, 630, 80*time.Millisecond)

	if !slices.Equal(r.taps, []string{"meeting"}) {
		t.Errorf("taps = %v, want [meeting]", r.taps)
	}
}
