package trace

import (
	"slices"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

var (
	day  = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	wall = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func testGeometry() Geometry {
	return Geometry{Width: 300, HourHeightPx: 60, SnapIntervalMin: 15}
}

func meeting() event.Event {
	return event.Event{ID: "meeting", Title: "Meeting", Start: at(10, 30), End: at(12, 0)}
}

func pointer(phase gesture.Phase, x, y float64, offset time.Duration) Sample {
	ev := gesture.PointerEvent{
		Phase:    phase,
		Position: grid.Point{X: x, Y: y},
		Time:     wall.Add(offset),
	}
	return Sample{Kind: SamplePointer, At: ev.Time, Pointer: &ev}
}

// dragRecording moves the 10:30 meeting down 30px, one snap step.
func dragRecording() Recording {
	return Recording{
		Name:       "drag-meeting",
		RecordedAt: wall,
		Day:        day,
		Geometry:   testGeometry(),
		Events:     []event.Event{meeting()},
		Samples: []Sample{
			pointer(gesture.PhaseBegan, 150, 670, 0),
			pointer(gesture.PhaseActive, 150, 700, 100*time.Millisecond),
			pointer(gesture.PhaseEnded, 150, 700, 200*time.Millisecond),
		},
	}
}

func TestReplayCommitsRecordedDrag(t *testing.T) {
	res, err := Replay(dragRecording(), gesture.Options{}, viewmode.Options{})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if len(res.Mutations) != 1 {
		t.Fatalf("mutations = %+v, want exactly one", res.Mutations)
	}
	got := res.Mutations[0]
	want := Mutation{Op: "move", ID: "meeting", Start: at(11, 0), End: at(12, 30)}
	if got.Op != want.Op || got.ID != want.ID || !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Errorf("mutation = %+v, want %+v", got, want)
	}

	if res.FinalState != gesture.StateIdle {
		t.Errorf("final state = %v, want idle", res.FinalState)
	}
	if res.FinalMode != viewmode.ModeDay {
		t.Errorf("final mode = %v, want day", res.FinalMode)
	}
	if !res.FinalAnchor.Equal(day) {
		t.Errorf("final anchor = %v, want %v", res.FinalAnchor, day)
	}

	committed := false
	for _, kind := range res.Feedback {
		if kind == gesture.FeedbackCommit {
			committed = true
		}
	}
	if !committed {
		t.Errorf("feedback = %v, want a commit tick", res.Feedback)
	}
}

func TestReplayReportsTaps(t *testing.T) {
	rec := dragRecording()
	rec.Samples = []Sample{
		pointer(gesture.PhaseBegan, 150, 670, 0),
		pointer(gesture.PhaseEnded, 150, 670, 150*time.Millisecond),
	}

	res, err := Replay(rec, gesture.Options{}, viewmode.Options{})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(res.Taps) != 1 || res.Taps[0] != "meeting" {
		t.Errorf("taps = %v, want [meeting]", res.Taps)
	}
	if len(res.Mutations) != 0 {
		t.Errorf("mutations = %+v, want none", res.Mutations)
	}
}

func TestReplayFiresTickDrivenTransitions(t *testing.T) {
	rec := dragRecording()
	rec.Samples = []Sample{
		pointer(gesture.PhaseBegan, 150, 670, 0),
		{Kind: SampleTick, At: wall.Add(600 * time.Millisecond)},
		pointer(gesture.PhaseEnded, 150, 670, 700*time.Millisecond),
	}

	res, err := Replay(rec, gesture.Options{}, viewmode.Options{})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	// The tick crosses the long-press delay, so the hold selects instead
	// of tapping.
	if len(res.Selections) != 1 || len(res.Selections[0]) != 1 || res.Selections[0][0] != "meeting" {
		t.Errorf("selections = %v, want [[meeting]]", res.Selections)
	}
	if len(res.Taps) != 0 {
		t.Errorf("taps = %v, want none", res.Taps)
	}
}

func TestReplayRejectsBrokenSamples(t *testing.T) {
	rec := dragRecording()
	rec.Samples = []Sample{{Kind: SamplePointer, At: wall}}

	if _, err := Replay(rec, gesture.Options{}, viewmode.Options{}); err == nil {
		t.Fatal("expected error for pointer sample without payload")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := t.TempDir() + "/drag-meeting.json"

	rec := dragRecording()
	if err := Save(rec, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != rec.Name || !loaded.Day.Equal(rec.Day) {
		t.Errorf("loaded = %s on %v, want %s on %v", loaded.Name, loaded.Day, rec.Name, rec.Day)
	}
	if loaded.Geometry != rec.Geometry {
		t.Errorf("geometry = %+v, want %+v", loaded.Geometry, rec.Geometry)
	}
	if len(loaded.Samples) != len(rec.Samples) {
		t.Fatalf("got %d samples, want %d", len(loaded.Samples), len(rec.Samples))
	}

	// The loaded recording replays to the same outcome.
	res, err := Replay(loaded, gesture.Options{}, viewmode.Options{})
	if err != nil {
		t.Fatalf("Replay of loaded recording: %v", err)
	}
	if len(res.Mutations) != 1 || res.Mutations[0].Op != "move" {
		t.Errorf("mutations = %+v, want one move", res.Mutations)
	}
}

func TestSaveRejectsHiddenFilenames(t *testing.T) {
	err := Save(dragRecording(), t.TempDir()+"/.sneaky.json")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidTrace {
		t.Errorf("code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeInvalidTrace)
	}
}

func TestReadRejectsUnknownKinds(t *testing.T) {
	input := `{
  "day": "2026-03-09T00:00:00Z",
  "samples": [{"kind": "telepathy", "at": "2026-03-09T12:00:00Z"}]
}`
	if _, err := Read(strings.NewReader(input)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRecorderCapturesWhatItForwards(t *testing.T) {
	geo := testGeometry()
	view, err := viewmode.NewController(viewmode.Options{Mode: viewmode.ModeDay, Anchor: day}, viewmode.Callbacks{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	view.SetWidth(geo.Width)

	var taps []string
	machine, err := gesture.NewMachine(geo.Mapper(), view, gesture.Options{}, gesture.Callbacks{
		OnEventTap: func(id string) { taps = append(taps, id) },
	})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	events := []event.Event{meeting()}
	engine := layout.NewEngine(geo.Mapper(), geo.Width)
	machine.SetDay(engine.LayoutDay(events, day), events)

	recorder := NewRecorder(machine, "tap", day, geo, events)
	recorder.Handle(gesture.PointerEvent{Phase: gesture.PhaseBegan, Position: grid.Point{X: 150, Y: 670}, Time: wall})
	recorder.Tick(wall.Add(50 * time.Millisecond))
	recorder.Handle(gesture.PointerEvent{Phase: gesture.PhaseEnded, Position: grid.Point{X: 150, Y: 670}, Time: wall.Add(100 * time.Millisecond)})
	recorder.HandlePinch(gesture.PinchEvent{Phase: gesture.PhaseActive, Scale: 1.1, Time: wall.Add(200 * time.Millisecond)})

	// The wrapped machine saw the stream.
	if len(taps) != 1 || taps[0] != "meeting" {
		t.Errorf("taps = %v, want [meeting]", taps)
	}

	rec := recorder.Recording()
	kinds := make([]string, len(rec.Samples))
	for i, s := range rec.Samples {
		kinds[i] = s.Kind
	}
	want := []string{SamplePointer, SampleTick, SamplePointer, SamplePinch}
	if !slices.Equal(kinds, want) {
		t.Fatalf("sample kinds = %v, want %v", kinds, want)
	}
	if rec.Duration() != 200*time.Millisecond {
		t.Errorf("Duration = %v, want 200ms", rec.Duration())
	}
}

func TestGeometryMapperDefaults(t *testing.T) {
	m := Geometry{}.Mapper()
	if m.HourHeight != grid.DefaultHourHeight || m.SnapInterval != grid.DefaultSnapInterval {
		t.Errorf("zero geometry mapper = %+v, want defaults", m)
	}
}
