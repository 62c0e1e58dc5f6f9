package gesture

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/observability"
	"github.com/matzehuels/timegrid/pkg/selection"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

// =============================================================================
// Options
// =============================================================================

// Default recognizer thresholds.
const (
	DefaultHandleThreshold  = 20.0
	DefaultMinDragDistance  = 10.0
	DefaultLongPress        = 500 * time.Millisecond
	DefaultCommitHysteresis = 5.0
	DefaultDraftDuration    = 30 * time.Minute
)

// Options tune the recognizer's thresholds. The zero value is usable:
// ValidateAndSetDefaults fills every unset field with its default.
type Options struct {
	HandleThreshold  float64       // px from an event edge that arms a resize
	MinDragDistance  float64       // px of travel that turns a press into a drag
	LongPress        time.Duration // unmoved press time that arms a selection or draft
	CommitHysteresis float64       // px below which a release resolves as a tap
	MinEventDuration time.Duration // floor for committed event durations
	DraftDuration    time.Duration // initial length of a long-press create draft
}

// ValidateAndSetDefaults rejects negative thresholds and fills zero fields
// with package defaults. Safe to call more than once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.HandleThreshold < 0 || o.MinDragDistance < 0 || o.CommitHysteresis < 0 {
		return errors.New("gesture: pixel thresholds must not be negative")
	}
	if o.LongPress < 0 || o.MinEventDuration < 0 || o.DraftDuration < 0 {
		return errors.New("gesture: durations must not be negative")
	}
	if o.HandleThreshold == 0 {
		o.HandleThreshold = DefaultHandleThreshold
	}
	if o.MinDragDistance == 0 {
		o.MinDragDistance = DefaultMinDragDistance
	}
	if o.LongPress == 0 {
		o.LongPress = DefaultLongPress
	}
	if o.CommitHysteresis == 0 {
		o.CommitHysteresis = DefaultCommitHysteresis
	}
	if o.MinEventDuration == 0 {
		o.MinEventDuration = event.DefaultMinDuration
	}
	if o.DraftDuration == 0 {
		o.DraftDuration = DefaultDraftDuration
	}
	return nil
}

// =============================================================================
// Machine - Gesture Recognizer
// =============================================================================

// Machine disambiguates a normalized pointer stream into calendar intents:
// taps, long-press selections, drags, edge resizes, rubber bands, pans and
// pinches. It owns the in-flight [Session] and guarantees that at most one
// mutation-proposing gesture is live at a time, that partial gestures leave
// no trace when cancelled, and that every committed proposal has passed the
// duration validator.
//
// The machine is event-driven and single-threaded: every transition happens
// synchronously inside [Machine.Handle], [Machine.HandlePinch],
// [Machine.Tick] or [Machine.SetDay] on the caller's goroutine. It owns no
// timers; the long-press transition derives from sample timestamps, with
// Tick as the poke for surfaces whose pointer streams go quiet while a
// finger rests.
type Machine struct {
	opts      Options
	mapper    grid.Mapper
	validator event.Validator
	callbacks Callbacks
	view      *viewmode.Controller

	state    State
	session  *Session
	band     *selection.Band
	selected []string

	day    layout.Day
	events map[string]event.Event

	pressPos    grid.Point
	pressTime   time.Time
	pressTarget string  // event under the press, empty on canvas
	travel      float64 // peak displacement from the press origin
	lastPos     grid.Point
}

// NewMachine builds a recognizer over the given grid metrics. view may be
// nil when pan navigation and pinch zoom are not wired; pans then resolve
// without navigating.
func NewMachine(mapper grid.Mapper, view *viewmode.Controller, opts Options, cb Callbacks) (*Machine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Machine{
		opts:      opts,
		mapper:    mapper,
		validator: event.NewValidator(opts.MinEventDuration),
		callbacks: cb,
		view:      view,
		state:     StateIdle,
		events:    map[string]event.Event{},
	}, nil
}

// State returns the current recognizer state.
func (m *Machine) State() State { return m.state }

// Snapshot returns an immutable view of the machine for renderers.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{State: m.state}
	if m.session != nil {
		snap.Session = *m.session
		snap.HasSession = true
	}
	if m.band != nil {
		snap.SelectionRect = m.band.Rect()
		snap.Selected = slices.Clone(m.band.IDs())
	} else if m.selected != nil {
		snap.Selected = slices.Clone(m.selected)
	}
	return snap
}

// SetDay installs the layout and events the machine hit-tests against.
// Surfaces call it after every layout pass. A refresh that removes the
// active session's target force-cancels the session; committing against an
// event that no longer exists is never allowed.
func (m *Machine) SetDay(day layout.Day, events []event.Event) {
	m.day = day
	m.events = make(map[string]event.Event, len(events))
	for _, ev := range events {
		m.events[ev.ID] = ev
	}
	if m.session != nil && m.session.TargetID != "" {
		if _, ok := m.events[m.session.TargetID]; !ok {
			m.cancel("target vanished")
		}
	}
}

// =============================================================================
// Pointer Handling
// =============================================================================

// Handle consumes one pointer sample and advances the machine. Samples that
// make no sense in the current state, such as a second began while a
// gesture is live, are ignored rather than corrupting the session.
func (m *Machine) Handle(ev PointerEvent) {
	switch ev.Phase {
	case PhaseBegan:
		m.begin(ev)
	case PhaseActive:
		m.update(ev)
	case PhaseEnded:
		m.end(ev)
	case PhaseCancelled:
		m.cancel("pointer cancelled")
	}
	m.notify()
}

// HandlePinch consumes one pinch sample. A pinch beginning mid-session
// force-cancels the session: a second finger means zoom, not drag.
func (m *Machine) HandlePinch(ev PinchEvent) {
	if m.view == nil {
		return
	}
	switch ev.Phase {
	case PhaseBegan:
		if m.state != StateIdle {
			m.cancel("pinch began")
		}
		m.view.BeginPinch()
	case PhaseActive:
		m.view.Pinch(ev.Scale, ev.Time)
	case PhaseEnded, PhaseCancelled:
		m.view.EndPinch()
	}
}

// Tick advances timing-sensitive transitions without new pointer input, so
// a perfectly still finger still arms a long press. Surfaces with quiet
// pointer streams call it periodically with their clock.
func (m *Machine) Tick(now time.Time) {
	if m.state != StatePressed {
		return
	}
	m.checkLongPress(now)
	if m.state != StatePressed {
		m.notify()
	}
}

func (m *Machine) begin(ev PointerEvent) {
	if m.state != StateIdle {
		return
	}
	m.pressPos = ev.Position
	m.pressTime = ev.Time
	m.lastPos = ev.Position
	m.travel = 0
	m.pressTarget = ""
	m.setState(StatePressed)

	box, ok := m.day.BoxAt(ev.Position)
	if !ok {
		return
	}
	target, ok := m.events[box.EventID]
	if !ok {
		return
	}
	m.pressTarget = target.ID

	handle := m.handleAt(ev.Position, box)
	if handle == HandleNone {
		return
	}
	m.session = &Session{
		Kind:          KindResize,
		Handle:        handle,
		TargetID:      target.ID,
		OriginalStart: target.Start,
		OriginalEnd:   target.End,
		ProposedStart: target.Start,
		ProposedEnd:   target.End,
		StartPointer:  ev.Position,
		LastPointer:   ev.Position,
	}
	m.setState(StateResizing)
	m.callbacks.feedback(FeedbackHandleGrab)
}

func (m *Machine) update(ev PointerEvent) {
	if m.state == StateIdle {
		return
	}
	if d := ev.Position.Dist(m.pressPos); d > m.travel {
		m.travel = d
	}
	m.lastPos = ev.Position
	if m.session != nil {
		m.session.LastPointer = ev.Position
	}

	switch m.state {
	case StatePressed:
		m.disambiguate(ev)
	case StateResizing:
		m.trackResize(ev)
	case StateDragging:
		m.trackDrag(ev)
	case StateSelecting:
		m.trackSelect(ev)
	case StatePanning:
		// Live pan offset is render-only; the controller decides at release.
	}
}

func (m *Machine) end(ev PointerEvent) {
	if d := ev.Position.Dist(m.pressPos); d > m.travel {
		m.travel = d
	}
	if m.session != nil {
		m.session.LastPointer = ev.Position
	}

	switch m.state {
	case StatePressed:
		// A hold that only now crosses the long-press delay still counts.
		m.checkLongPress(ev.Time)
		if m.state == StatePressed {
			m.resolveTap()
			return
		}
		m.end(ev)
	case StateResizing, StateDragging:
		m.commitSession(ev)
	case StateSelecting:
		m.commitSelection()
	case StatePanning:
		m.commitPan(ev)
	}
}

// =============================================================================
// Disambiguation
// =============================================================================

// disambiguate resolves a pressed pointer once movement or time crosses a
// threshold. Movement wins over the long-press delay: a finger that
// travelled past the drag distance has declared itself, however long it
// took.
func (m *Machine) disambiguate(ev PointerEvent) {
	if m.travel >= m.opts.MinDragDistance {
		delta := ev.Position.Sub(m.pressPos)
		switch {
		case m.pressTarget != "":
			m.startMove(ev)
		case math.Abs(delta.X) > math.Abs(delta.Y):
			m.setState(StatePanning)
		default:
			m.band = selection.Start(m.pressPos)
			m.band.Update(ev.Position, m.day.Boxes)
			m.setState(StateSelecting)
		}
		return
	}
	m.checkLongPress(ev.Time)
}

func (m *Machine) checkLongPress(now time.Time) {
	if m.state != StatePressed || m.travel >= m.opts.MinDragDistance {
		return
	}
	if now.Sub(m.pressTime) < m.opts.LongPress {
		return
	}
	if m.pressTarget != "" {
		// Select the pressed event and arm context actions; no move starts.
		m.selected = []string{m.pressTarget}
		m.setState(StateSelecting)
		m.callbacks.feedback(FeedbackLongPress)
		if m.callbacks.OnSelectionChange != nil {
			m.callbacks.OnSelectionChange(slices.Clone(m.selected))
		}
		return
	}
	// Long press on canvas opens a draft slot under the finger.
	start := m.mapper.TimeForY(m.pressPos.Y, m.day.Date)
	m.session = &Session{
		Kind:          KindCreate,
		ProposedStart: start,
		ProposedEnd:   start.Add(m.opts.DraftDuration),
		StartPointer:  m.pressPos,
		LastPointer:   m.lastPos,
	}
	m.setState(StateDragging)
	m.callbacks.feedback(FeedbackLongPress)
}

func (m *Machine) startMove(ev PointerEvent) {
	target, ok := m.events[m.pressTarget]
	if !ok {
		m.cancel("target vanished")
		return
	}
	m.session = &Session{
		Kind:          KindMove,
		TargetID:      target.ID,
		OriginalStart: target.Start,
		OriginalEnd:   target.End,
		ProposedStart: target.Start,
		ProposedEnd:   target.End,
		StartPointer:  m.pressPos,
		LastPointer:   ev.Position,
	}
	m.setState(StateDragging)
	m.trackDrag(ev)
}

// handleAt returns which edge of box a press at p grabs, or HandleNone for
// the body. On boxes short enough that both edge zones overlap, the nearer
// edge wins and ties go to the bottom.
func (m *Machine) handleAt(p grid.Point, box layout.Box) Handle {
	topDist := p.Y - box.Top
	bottomDist := box.Top + box.Height - p.Y
	withinTop := topDist <= m.opts.HandleThreshold
	withinBottom := bottomDist <= m.opts.HandleThreshold
	switch {
	case withinTop && withinBottom:
		if topDist < bottomDist {
			return HandleTop
		}
		return HandleBottom
	case withinTop:
		return HandleTop
	case withinBottom:
		return HandleBottom
	default:
		return HandleNone
	}
}

// =============================================================================
// Live Tracking
// =============================================================================

// trackResize recomputes the proposal from the pointer, pinning the moving
// endpoint so the duration never falls under the floor. The fixed endpoint
// is never touched.
func (m *Machine) trackResize(ev PointerEvent) {
	s := m.session
	t := m.mapper.TimeForY(ev.Position.Y, m.day.Date)

	start, end := s.ProposedStart, s.ProposedEnd
	switch s.Handle {
	case HandleBottom:
		end = t
		if floor := s.OriginalStart.Add(m.opts.MinEventDuration); end.Before(floor) {
			end = floor
		}
	case HandleTop:
		start = t
		if ceil := s.OriginalEnd.Add(-m.opts.MinEventDuration); start.After(ceil) {
			start = ceil
		}
	}
	m.propose(start, end)
}

func (m *Machine) trackDrag(ev PointerEvent) {
	s := m.session
	switch s.Kind {
	case KindMove:
		duration := s.OriginalEnd.Sub(s.OriginalStart)
		originY := m.mapper.HeightFor(s.OriginalStart.Sub(grid.DayStart(m.day.Date)))
		start := m.mapper.TimeForY(originY+ev.Position.Y-s.StartPointer.Y, m.day.Date)
		m.propose(start, start.Add(duration))
	case KindCreate:
		start := m.mapper.TimeForY(ev.Position.Y, m.day.Date)
		m.propose(start, start.Add(m.opts.DraftDuration))
	}
}

func (m *Machine) trackSelect(ev PointerEvent) {
	if m.band != nil {
		m.band.Update(ev.Position, m.day.Boxes)
		return
	}
	// A long-press selection that starts travelling becomes a move of the
	// selected event.
	if m.travel >= m.opts.MinDragDistance {
		m.startMove(ev)
	}
}

// propose installs a new proposal and ticks when it changed, so feedback
// fires once per snap step rather than once per pointer sample.
func (m *Machine) propose(start, end time.Time) {
	s := m.session
	if start.Equal(s.ProposedStart) && end.Equal(s.ProposedEnd) {
		return
	}
	s.ProposedStart, s.ProposedEnd = start, end
	m.callbacks.feedback(FeedbackSnapTick)
}

// =============================================================================
// Commit and Cancel
// =============================================================================

func (m *Machine) resolveTap() {
	target := m.pressTarget
	m.finish(StateCancelled)
	if target != "" && m.callbacks.OnEventTap != nil {
		m.callbacks.OnEventTap(target)
	}
}

func (m *Machine) commitSession(ev PointerEvent) {
	s := m.session

	// Sub-hysteresis releases of move and resize sessions are taps, not
	// micro-mutations. Drafts commit regardless of travel: the long press
	// already confirmed intent.
	if s.Kind != KindCreate && ev.Position.Dist(m.pressPos) < m.opts.CommitHysteresis {
		m.resolveTap()
		return
	}

	var op event.Op
	switch s.Kind {
	case KindMove:
		op = event.OpMove
	case KindResize:
		op = event.OpResize
	case KindCreate:
		op = event.OpCreate
	}
	res, ok := m.validator.Check(op, s.ProposedStart, s.ProposedEnd)
	if !ok {
		observability.Gesture().OnCancel("invalid proposal")
		m.finish(StateCancelled)
		m.callbacks.feedback(FeedbackCancel)
		return
	}

	kind, target := s.Kind, s.TargetID

	// Finish before the callbacks run: a callback is free to mutate the
	// store and call SetDay, which must observe an idle machine.
	m.finish(StateCommitted)
	observability.Gesture().OnCommit(string(kind))
	m.callbacks.feedback(FeedbackCommit)
	switch kind {
	case KindMove:
		if m.callbacks.OnEventMove != nil {
			m.callbacks.OnEventMove(target, res.Start, res.End)
		}
	case KindResize:
		if m.callbacks.OnEventResize != nil {
			m.callbacks.OnEventResize(target, res.Start, res.End)
		}
	case KindCreate:
		if m.callbacks.OnEventCreate != nil {
			m.callbacks.OnEventCreate(res.Start, res.End)
		}
	}
}

func (m *Machine) commitSelection() {
	var ids []string
	fromBand := m.band != nil
	if fromBand {
		ids = m.band.Commit()
	}
	m.finish(StateCommitted)
	observability.Gesture().OnCommit(string(KindSelect))
	// A long-press selection already reported at arm time; only the rubber
	// band reports at release, and an empty set is a valid commit.
	if fromBand && m.callbacks.OnSelectionChange != nil {
		m.callbacks.OnSelectionChange(ids)
	}
}

func (m *Machine) commitPan(ev PointerEvent) {
	dx := ev.Position.X - m.pressPos.X
	navigated := false
	if m.view != nil {
		navigated = m.view.EndPan(dx, ev.Velocity.X)
	}
	if !navigated {
		m.finish(StateCancelled)
		return
	}
	m.finish(StateCommitted)
	observability.Gesture().OnCommit("pan")
}

// cancel force-ends any in-flight gesture. The session is discarded
// wholesale: no callback fires, no store write happens, the event keeps
// its pre-gesture times.
func (m *Machine) cancel(reason string) {
	if m.state == StateIdle {
		return
	}
	observability.Gesture().OnCancel(reason)
	m.finish(StateCancelled)
	m.callbacks.feedback(FeedbackCancel)
}

// finish passes through a terminal state and returns to Idle, discarding
// every per-gesture value.
func (m *Machine) finish(terminal State) {
	m.setState(terminal)
	m.session = nil
	m.band = nil
	m.selected = nil
	m.pressTarget = ""
	m.travel = 0
	m.setState(StateIdle)
}

func (m *Machine) setState(to State) {
	observability.Gesture().OnTransition(string(m.state), string(to))
	m.state = to
}

func (m *Machine) notify() {
	if m.callbacks.OnSessionUpdate != nil {
		m.callbacks.OnSessionUpdate(m.Snapshot())
	}
}
