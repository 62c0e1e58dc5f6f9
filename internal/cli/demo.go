package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/store"
	"github.com/matzehuels/timegrid/pkg/trace"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

// Demo geometry. One terminal row is one snap step, so with 15-minute
// snapping an hour is four rows and every cell boundary is a snap boundary.
const (
	demoRowsPerHour = 4
	demoGutter      = 6 // "09:00" plus a separator column
	demoHeaderRows  = 3
	demoFooterRows  = 2
	demoTickEvery   = 100 * time.Millisecond
)

// demoPalette colors events that carry no explicit color, keyed by their
// box order so recoloring is stable within a layout pass.
var demoPalette = []lipgloss.Color{"27", "99", "36", "208", "161", "70"}

// Grid styles
var (
	gutterStyle = lipgloss.NewStyle().Foreground(colorDim)
	hourStyle   = lipgloss.NewStyle().Foreground(colorDim)
	ghostStyle  = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim).Bold(true)
	bandStyle   = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	statusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// demo command
// =============================================================================

// demoCommand creates the demo command, an interactive day grid driven by
// the real recognizer.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		dayFlag string
		record  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Drive the gesture core interactively",
		Long: `Drive the gesture core interactively in the terminal.

The mouse is the pointer: drag an event to move it, grab its top or
bottom row to resize, hold an empty cell to draft a new event, hold an
event to start a selection, drag across empty canvas to rubber-band.
Committed gestures write through to the configured store.

With --record, every pointer sample is captured to a trace file on
exit; the trace snapshots the starting day, so record single-day
sessions for faithful replays.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), dayFlag, record)
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "day to open (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&record, "record", "", "write a gesture trace to this file on exit")

	return cmd
}

func (c *CLI) runDemo(ctx context.Context, dayFlag, record string) error {
	day, err := parseDay(dayFlag)
	if err != nil {
		return err
	}

	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	model, err := c.newDemoModel(ctx, s, day, record)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run demo: %w", err)
	}

	core := final.(demoModel).core
	if core.mutations > 0 {
		printSuccess("Committed %d mutations", core.mutations)
	} else {
		printInfo("No mutations committed")
	}
	if core.recorder != nil {
		recording := core.recorder.Recording()
		if err := trace.Save(recording, core.recordPath); err != nil {
			return err
		}
		printDetail("recorded %d samples over %s", len(recording.Samples), recording.Duration())
		printFile(core.recordPath)
		printNewline()
		printNextStep("Replay it", appName+" replay "+core.recordPath)
	}
	return nil
}

// =============================================================================
// demoCore - Live Recognizer Wiring
// =============================================================================

// pointerSink is where the model routes input: the machine directly, or a
// trace recorder wrapping it.
type pointerSink interface {
	Handle(ev gesture.PointerEvent)
	HandlePinch(ev gesture.PinchEvent)
	Tick(now time.Time)
}

// demoCore owns the machine, view controller and store. Gesture callbacks
// fire synchronously while the model handles a message and write in here;
// the model re-reads the core when building its next frame.
type demoCore struct {
	ctx      context.Context
	store    store.Store
	calendar string

	view       *viewmode.Controller
	machine    *gesture.Machine
	recorder   *trace.Recorder
	recordPath string
	sink       pointerSink
	mapper     grid.Mapper

	day      time.Time
	events   []event.Event
	computed layout.Day
	snap     gesture.Snapshot
	selected []string

	status    string
	mutations int
	dirty     bool
}

func (c *CLI) newDemoModel(ctx context.Context, s store.Store, day time.Time, record string) (demoModel, error) {
	core := &demoCore{
		ctx:      ctx,
		store:    s,
		calendar: c.Config.Store.Calendar,
		mapper:   grid.NewMapper(demoRowsPerHour, 15*time.Minute),
		day:      day,
		status:   "Ready",
	}

	vopts := c.Config.View.Options()
	if vopts.Mode == "" {
		vopts.Mode = viewmode.ModeDay
	}
	vopts.Anchor = day
	view, err := viewmode.NewController(vopts, viewmode.Callbacks{
		OnNavigate: func(anchor time.Time) {
			core.dirty = true
			core.status = "Moved to " + anchor.Format(dayFormat)
		},
		OnModeChange: func(mode viewmode.Mode) {
			core.dirty = true
			core.status = "Switched to " + string(mode) + " view"
		},
	})
	if err != nil {
		return demoModel{}, err
	}
	core.view = view

	// Pixel thresholds from the profile assume touch density; here one
	// pixel is a whole cell, so distances collapse to single cells while
	// the time-based options keep their profile values.
	gopts := c.Config.Gesture.Options()
	gopts.HandleThreshold = 1
	gopts.MinDragDistance = 1
	gopts.CommitHysteresis = 1

	machine, err := gesture.NewMachine(core.mapper, view, gopts, core.callbacks())
	if err != nil {
		return demoModel{}, err
	}
	core.machine = machine
	core.sink = machine

	if err := core.reload(); err != nil {
		return demoModel{}, err
	}
	core.recordPath = record

	return demoModel{
		core:   core,
		width:  80,
		height: 24,
		scroll: 8 * demoRowsPerHour,
	}, nil
}

func (d *demoCore) callbacks() gesture.Callbacks {
	return gesture.Callbacks{
		OnEventMove: func(id string, start, end time.Time) {
			d.applyReschedule("Moved", id, start, end)
		},
		OnEventResize: func(id string, start, end time.Time) {
			d.applyReschedule("Resized", id, start, end)
		},
		OnEventCreate: func(start, end time.Time) {
			ev := event.Event{
				ID:         store.NewID(),
				CalendarID: d.calendar,
				Title:      "New event",
				Start:      start,
				End:        end,
				CreatedAt:  time.Now().UTC(),
				UpdatedAt:  time.Now().UTC(),
			}
			if err := d.store.Put(d.ctx, ev); err != nil {
				d.status = "Create failed: " + err.Error()
				return
			}
			d.mutations++
			d.dirty = true
			d.status = fmt.Sprintf("Created %s-%s", start.Format("15:04"), end.Format("15:04"))
		},
		OnEventTap: func(id string) {
			d.status = "Tapped " + d.titleOf(id)
		},
		OnSelectionChange: func(ids []string) {
			d.selected = ids
			switch len(ids) {
			case 0:
				d.status = "Selection cleared"
			case 1:
				d.status = "Selected " + d.titleOf(ids[0])
			default:
				d.status = fmt.Sprintf("Selected %d events", len(ids))
			}
		},
		OnSessionUpdate: func(snap gesture.Snapshot) {
			d.snap = snap
		},
	}
}

func (d *demoCore) applyReschedule(verb, id string, start, end time.Time) {
	if _, err := store.Reschedule(d.ctx, d.store, id, start, end); err != nil {
		d.status = verb + " failed: " + err.Error()
		return
	}
	d.mutations++
	d.dirty = true
	d.status = fmt.Sprintf("%s %s to %s-%s",
		verb, d.titleOf(id), start.Format("15:04"), end.Format("15:04"))
}

func (d *demoCore) titleOf(id string) string {
	for _, ev := range d.events {
		if ev.ID == id && ev.Title != "" {
			return ev.Title
		}
	}
	return id
}

// reload pulls the anchor day from the store and hands the machine a fresh
// layout. Called after every committed mutation and navigation.
func (d *demoCore) reload() error {
	d.day = grid.DayStart(d.view.Anchor())
	events, err := store.Day(d.ctx, d.store, d.day)
	if err != nil {
		return err
	}
	d.events = events
	d.dirty = false
	return nil
}

// relayout recomputes boxes for the current width and synchronizes the
// machine's hit testing.
func (d *demoCore) relayout(width float64) {
	engine := layout.NewEngine(d.mapper, width)
	d.computed = engine.LayoutDay(d.events, d.day)
	d.machine.SetDay(d.computed, d.events)
	d.view.SetWidth(width)
}

// =============================================================================
// demoModel - Terminal Surface
// =============================================================================

// tickMsg drives the machine clock for long-press detection.
type tickMsg time.Time

// demoModel is the bubbletea model for the interactive grid.
type demoModel struct {
	core   *demoCore
	width  int
	height int
	scroll int // topmost visible grid row

	pressed     bool
	pressOrigin grid.Point
	lastPoint   grid.Point
	lastTime    time.Time
	velocity    grid.Point
}

func (m demoModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(demoTickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m demoModel) gridCols() int {
	cols := m.width - demoGutter
	if cols < 10 {
		cols = 10
	}
	return cols
}

func (m demoModel) gridRows() int {
	rows := m.height - demoHeaderRows - demoFooterRows
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m = m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.core.relayout(float64(m.gridCols()))
		m = m.clampScroll()
		// The recorder waits for the first size message so the captured
		// geometry matches what the gestures were aimed at.
		if m.core.recordPath != "" && m.core.recorder == nil {
			m.core.recorder = trace.NewRecorder(m.core.machine, "demo", m.core.day,
				trace.GeometryOf(m.core.mapper, float64(m.gridCols())), m.core.events)
			m.core.sink = m.core.recorder
		}

	case tickMsg:
		// The machine only consults the clock mid-gesture; skipping idle
		// ticks keeps recordings compact.
		if m.core.machine.State() != gesture.StateIdle {
			m.core.sink.Tick(time.Time(msg))
		}
		if m.core.dirty {
			m = m.reloadNow()
		}
		return m, tickCmd()
	}

	if m.core.dirty {
		m = m.reloadNow()
	}
	return m, nil
}

func (m demoModel) reloadNow() demoModel {
	if err := m.core.reload(); err != nil {
		m.core.status = "Load failed: " + err.Error()
		return m
	}
	m.core.relayout(float64(m.gridCols()))
	return m
}

func (m demoModel) clampScroll() demoModel {
	maxScroll := 24*demoRowsPerHour - m.gridRows()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	return m
}

func (m demoModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.pressed {
			m.core.sink.Handle(m.pointerEvent(gesture.PhaseCancelled, m.lastPoint))
			m.pressed = false
		}
	case "left":
		m.core.view.Navigate(-1)
	case "right":
		m.core.view.Navigate(1)
	case "t":
		m.core.view.SetAnchor(grid.DayStart(time.Now()))
		m.core.dirty = true
		m.core.status = "Moved to today"
	case "d":
		m.core.view.SetMode(viewmode.ModeDay)
	case "w":
		m.core.view.SetMode(viewmode.ModeWeek)
	case "m":
		m.core.view.SetMode(viewmode.ModeMonth)
	case "a":
		m.core.view.SetMode(viewmode.ModeAgenda)
	case "+", "=":
		if next, ok := narrower[m.core.view.Mode()]; ok {
			m.core.view.SetMode(next)
		}
	case "-", "_":
		if next, ok := wider[m.core.view.Mode()]; ok {
			m.core.view.SetMode(next)
		}
	case "up", "k":
		m.scroll -= demoRowsPerHour
		m = m.clampScroll()
	case "down", "j":
		m.scroll += demoRowsPerHour
		m = m.clampScroll()
	}

	if m.core.dirty {
		m = m.reloadNow()
	}
	return m, nil
}

// narrower and wider are the keyboard stand-ins for pinch zoom.
var (
	narrower = map[viewmode.Mode]viewmode.Mode{
		viewmode.ModeMonth: viewmode.ModeWeek,
		viewmode.ModeWeek:  viewmode.ModeDay,
	}
	wider = map[viewmode.Mode]viewmode.Mode{
		viewmode.ModeDay:  viewmode.ModeWeek,
		viewmode.ModeWeek: viewmode.ModeMonth,
	}
)

func (m demoModel) handleMouse(msg tea.MouseMsg) demoModel {
	if msg.Button == tea.MouseButtonWheelUp {
		m.scroll -= 2
		return m.clampScroll()
	}
	if msg.Button == tea.MouseButtonWheelDown {
		m.scroll += 2
		return m.clampScroll()
	}

	p, inGrid := m.gridPoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inGrid {
			return m
		}
		m.pressed = true
		m.pressOrigin = p
		m.lastPoint = p
		m.lastTime = time.Now()
		m.velocity = grid.Point{}
		m.core.sink.Handle(m.pointerEvent(gesture.PhaseBegan, p))

	case tea.MouseActionMotion:
		if !m.pressed {
			return m
		}
		now := time.Now()
		if dt := now.Sub(m.lastTime).Seconds(); dt > 0 {
			m.velocity = grid.Point{
				X: (p.X - m.lastPoint.X) / dt,
				Y: (p.Y - m.lastPoint.Y) / dt,
			}
		}
		m.lastPoint = p
		m.lastTime = now
		m.core.sink.Handle(m.pointerEvent(gesture.PhaseActive, p))

	case tea.MouseActionRelease:
		if !m.pressed {
			return m
		}
		m.pressed = false
		m.core.sink.Handle(m.pointerEvent(gesture.PhaseEnded, m.lastPoint))
	}

	return m
}

// gridPoint converts a terminal cell to grid pixels.
func (m demoModel) gridPoint(x, y int) (grid.Point, bool) {
	px := float64(x-demoGutter) + 0.5
	py := float64(y-demoHeaderRows+m.scroll) + 0.5
	in := x >= demoGutter && x < demoGutter+m.gridCols() &&
		py >= 0 && py < 24*demoRowsPerHour
	return grid.Point{X: px, Y: py}, in
}

func (m demoModel) pointerEvent(phase gesture.Phase, p grid.Point) gesture.PointerEvent {
	return gesture.PointerEvent{
		Phase:       phase,
		Position:    p,
		Translation: p.Sub(m.pressOrigin),
		Velocity:    m.velocity,
		Time:        time.Now(),
	}
}

// =============================================================================
// View
// =============================================================================

func (m demoModel) View() string {
	var b strings.Builder

	core := m.core
	title := core.day.Format("Monday, January 2 2006")
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render("  " + string(core.view.Mode()) + " view"))
	if n := len(core.selected); n > 0 {
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("  %d selected", n)))
	}
	if core.mutations > 0 {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("  %d changed", core.mutations)))
	}
	b.WriteString("\n")

	if len(core.computed.AllDay) > 0 {
		names := make([]string, len(core.computed.AllDay))
		for i, id := range core.computed.AllDay {
			names[i] = core.titleOf(id)
		}
		b.WriteString(StyleDim.Render("all-day: "))
		b.WriteString(StyleValue.Render(strings.Join(names, ", ")))
	}
	b.WriteString("\n\n")

	if core.view.Mode() == viewmode.ModeAgenda {
		b.WriteString(m.renderAgenda())
	} else {
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(core.status))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(
		"drag move · edge resize · hold create/select · wheel scroll · ←/→ navigate · d/w/m/a mode · q quit"))

	return b.String()
}

// renderAgenda lists the day's events as lines instead of a grid.
func (m demoModel) renderAgenda() string {
	core := m.core
	if len(core.events) == 0 {
		return StyleDim.Render("  nothing scheduled") + "\n"
	}

	var b strings.Builder
	for i, ev := range core.events {
		if i >= m.gridRows() {
			break
		}
		when := "all day     "
		if !ev.AllDay {
			when = ev.Start.Format("15:04") + "-" + ev.End.Format("15:04") + " "
		}
		b.WriteString("  ")
		b.WriteString(StyleDim.Render(when))
		b.WriteString(StyleValue.Render(ev.Title))
		b.WriteString("\n")
	}
	return b.String()
}

// renderGrid paints the scrolled day grid with boxes, the live gesture
// ghost and the selection rubber band.
func (m demoModel) renderGrid() string {
	cols := m.gridCols()
	rows := m.gridRows()

	styles := m.cellStyles()
	ghost, hasGhost := m.ghostRect()
	band, hasBand := m.bandRect()

	var b strings.Builder
	for i := 0; i < rows; i++ {
		y := m.scroll + i
		if y >= 24*demoRowsPerHour {
			break
		}

		if y%demoRowsPerHour == 0 {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%02d:00", y/demoRowsPerHour)))
		} else {
			b.WriteString(strings.Repeat(" ", demoGutter-1))
		}
		b.WriteString(gutterStyle.Render("│"))

		b.WriteString(m.renderRow(y, cols, styles, ghost, hasGhost, band, hasBand))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow paints one pixel row, flushing runs of identically styled cells.
func (m demoModel) renderRow(y, cols int, styles map[string]lipgloss.Style, ghost grid.Rect, hasGhost bool, band grid.Rect, hasBand bool) string {
	var out strings.Builder
	var run strings.Builder
	runKey := ""
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := styles[runKey]; ok {
			out.WriteString(st.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}

	ghostLabel := ""
	if hasGhost && y == int(ghost.MinY) {
		s := m.core.snap.Session
		ghostLabel = " " + s.ProposedStart.Format("15:04") + "-" + s.ProposedEnd.Format("15:04")
	}

	for c := 0; c < cols; c++ {
		p := grid.Point{X: float64(c) + 0.5, Y: float64(y) + 0.5}

		key, ch := "", " "
		if y%demoRowsPerHour == 0 {
			key, ch = "hour", "·"
		}
		if box, ok := m.core.computed.BoxAt(p); ok {
			key = "box:" + box.EventID
			ch = m.boxChar(box, c, y)
		}
		if hasBand && band.Contains(p) {
			key = "band"
		}
		if hasGhost && ghost.Contains(p) {
			key, ch = "ghost", " "
			if rel := c - int(ghost.MinX); rel >= 0 && rel < len(ghostLabel) {
				ch = string(ghostLabel[rel])
			}
		}

		if key != runKey {
			flush()
			runKey = key
		}
		run.WriteString(ch)
	}
	flush()
	return out.String()
}

// boxChar picks the character a box shows in one cell: its title on the
// top row, padding below.
func (m demoModel) boxChar(box layout.Box, c, y int) string {
	if y != int(box.Top) {
		return " "
	}
	label := " " + m.core.titleOf(box.EventID)
	if m.isSelected(box.EventID) {
		label = "✓" + label
	}
	runes := []rune(label)
	rel := c - int(box.Left)
	if rel >= 0 && rel < len(runes) {
		return string(runes[rel])
	}
	return " "
}

func (m demoModel) isSelected(id string) bool {
	for _, s := range m.core.selected {
		if s == id {
			return true
		}
	}
	return false
}

// cellStyles maps every render-run key to its style: one entry per visible
// event, preferring the event's own color over a stable palette, plus the
// fixed hour, band and ghost styles.
func (m demoModel) cellStyles() map[string]lipgloss.Style {
	core := m.core
	byID := make(map[string]event.Event, len(core.events))
	for _, ev := range core.events {
		byID[ev.ID] = ev
	}

	styles := map[string]lipgloss.Style{
		"hour":  hourStyle,
		"band":  bandStyle,
		"ghost": ghostStyle,
	}
	for i, box := range core.computed.Boxes {
		color := demoPalette[i%len(demoPalette)]
		if ev, ok := byID[box.EventID]; ok && ev.Color != "" {
			color = lipgloss.Color(ev.Color)
		}
		st := lipgloss.NewStyle().Background(color).Foreground(lipgloss.Color("231"))
		if m.isSelected(box.EventID) {
			st = st.Bold(true).Underline(true)
		}
		styles["box:"+box.EventID] = st
	}
	return styles
}

// ghostRect is the proposed footprint of the in-flight gesture, in grid
// pixels.
func (m demoModel) ghostRect() (grid.Rect, bool) {
	core := m.core
	snap := core.snap
	if !snap.HasSession {
		return grid.Rect{}, false
	}
	s := snap.Session
	if s.Kind != gesture.KindMove && s.Kind != gesture.KindResize && s.Kind != gesture.KindCreate {
		return grid.Rect{}, false
	}

	minX, maxX := 0.0, float64(m.gridCols())
	if box, ok := core.computed.Box(s.TargetID); ok {
		minX, maxX = box.Left, box.Left+box.Width
	}
	minY := core.mapper.YForTime(s.ProposedStart)
	maxY := minY + core.mapper.HeightFor(s.ProposedEnd.Sub(s.ProposedStart))
	return grid.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, true
}

// bandRect is the live selection rectangle.
func (m demoModel) bandRect() (grid.Rect, bool) {
	snap := m.core.snap
	if snap.State != gesture.StateSelecting {
		return grid.Rect{}, false
	}
	r := snap.SelectionRect
	if r.Width() == 0 && r.Height() == 0 {
		return grid.Rect{}, false
	}
	return r, true
}
