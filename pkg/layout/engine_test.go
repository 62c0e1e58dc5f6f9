package layout

import (
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/grid"
)

var testDay = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

func ev(id string, sh, sm, eh, em int) event.Event {
	return event.Event{
		ID:    id,
		Start: time.Date(2026, time.March, 9, sh, sm, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 9, eh, em, 0, 0, time.UTC),
	}
}

func testEngine(width float64) Engine {
	return NewEngine(grid.NewMapper(60, 15*time.Minute), width)
}

func TestLayoutNonOverlappingFullWidth(t *testing.T) {
	e := testEngine(350)
	day := e.LayoutDay([]event.Event{
		ev("a", 9, 0, 10, 0),
		ev("b", 10, 0, 11, 0), // touching a, not overlapping
		ev("c", 14, 0, 15, 30),
	}, testDay)

	if len(day.Boxes) != 3 {
		t.Fatalf("boxes = %d, want 3", len(day.Boxes))
	}
	for _, b := range day.Boxes {
		if b.Column != 0 || b.Left != 0 || b.Width != 350 || b.Columns != 1 {
			t.Errorf("%s: got column %d, left %v, width %v, columns %d; want full width",
				b.EventID, b.Column, b.Left, b.Width, b.Columns)
		}
	}
}

func TestLayoutOverlappingPairSplitsWidth(t *testing.T) {
	e := testEngine(350)
	day := e.LayoutDay([]event.Event{
		ev("a", 9, 0, 10, 0),
		ev("b", 9, 30, 10, 30),
		ev("c", 11, 0, 12, 0),
	}, testDay)

	a, _ := day.Box("a")
	b, _ := day.Box("b")
	c, _ := day.Box("c")

	if a.Width != 175 || b.Width != 175 {
		t.Errorf("overlapping pair widths = %v, %v, want 175 each", a.Width, b.Width)
	}
	if a.Left != 0 || b.Left != 175 {
		t.Errorf("overlapping pair lefts = %v, %v, want 0 and 175", a.Left, b.Left)
	}
	if c.Width != 350 || c.Left != 0 {
		t.Errorf("disjoint event = left %v width %v, want full width at 0", c.Left, c.Width)
	}

	// Vertical placement follows the grid: 09:00 at 540px, one hour tall.
	if a.Top != 540 || a.Height != 60 {
		t.Errorf("a placed at top %v height %v, want 540/60", a.Top, a.Height)
	}
}

// A cluster's width divisor is its peak simultaneous overlap, not its size:
// three events chained pairwise still split in two when no instant holds
// all three.
func TestLayoutClusterUsesPeakOverlap(t *testing.T) {
	e := testEngine(300)
	day := e.LayoutDay([]event.Event{
		ev("a", 9, 0, 10, 0),
		ev("b", 9, 30, 11, 0),
		ev("c", 10, 15, 11, 0),
	}, testDay)

	for _, id := range []string{"a", "b", "c"} {
		b, ok := day.Box(id)
		if !ok {
			t.Fatalf("missing box %s", id)
		}
		if b.Columns != 2 || b.Width != 150 {
			t.Errorf("%s: columns %d width %v, want 2 columns of 150", id, b.Columns, b.Width)
		}
	}

	// c reuses a's freed column rather than opening a third.
	c, _ := day.Box("c")
	if c.Column != 0 {
		t.Errorf("c.Column = %d, want 0", c.Column)
	}
}

func TestLayoutTripleOverlap(t *testing.T) {
	e := testEngine(300)
	day := e.LayoutDay([]event.Event{
		ev("a", 9, 0, 12, 0),
		ev("b", 9, 30, 11, 0),
		ev("c", 10, 0, 10, 30),
	}, testDay)

	seen := map[int]bool{}
	for _, b := range day.Boxes {
		if b.Columns != 3 || b.Width != 100 {
			t.Errorf("%s: columns %d width %v, want 3 columns of 100", b.EventID, b.Columns, b.Width)
		}
		if seen[b.Column] {
			t.Errorf("column %d assigned twice", b.Column)
		}
		seen[b.Column] = true
		if b.ZIndex != b.Column {
			t.Errorf("%s: z-index %d should match column %d", b.EventID, b.ZIndex, b.Column)
		}
	}
}

// Overlapping events must never share a column, across clusters of any
// shape.
func TestLayoutNoColumnCollisions(t *testing.T) {
	events := []event.Event{
		ev("a", 8, 0, 9, 30),
		ev("b", 8, 15, 8, 45),
		ev("c", 8, 30, 10, 0),
		ev("d", 9, 0, 9, 15),
		ev("e", 9, 45, 11, 0),
		ev("f", 10, 30, 12, 0),
		ev("g", 13, 0, 14, 0),
	}
	day := testEngine(420).LayoutDay(events, testDay)

	byID := map[string]Box{}
	for _, b := range day.Boxes {
		byID[b.EventID] = b
	}
	for i, x := range events {
		for _, y := range events[i+1:] {
			if !x.Overlaps(y) {
				continue
			}
			if byID[x.ID].Column == byID[y.ID].Column {
				t.Errorf("%s and %s overlap but share column %d", x.ID, y.ID, byID[x.ID].Column)
			}
		}
	}
}

func TestLayoutDeterministicTiebreak(t *testing.T) {
	events := []event.Event{
		ev("beta", 9, 0, 10, 0),
		ev("alpha", 9, 0, 10, 0),
	}
	day := testEngine(200).LayoutDay(events, testDay)

	alpha, _ := day.Box("alpha")
	beta, _ := day.Box("beta")
	if alpha.Column != 0 || beta.Column != 1 {
		t.Errorf("simultaneous events order by ID: alpha %d, beta %d", alpha.Column, beta.Column)
	}

	// Input order must not matter.
	again := testEngine(200).LayoutDay([]event.Event{events[1], events[0]}, testDay)
	a2, _ := again.Box("alpha")
	if a2 != alpha {
		t.Errorf("layout changed with input order: %+v vs %+v", a2, alpha)
	}
}

func TestLayoutAllDayBand(t *testing.T) {
	all := ev("holiday", 0, 0, 23, 0)
	all.AllDay = true
	day := testEngine(300).LayoutDay([]event.Event{all, ev("a", 9, 0, 10, 0)}, testDay)

	if len(day.Boxes) != 1 || day.Boxes[0].EventID != "a" {
		t.Fatalf("timed boxes = %+v, want only a", day.Boxes)
	}
	if len(day.AllDay) != 1 || day.AllDay[0] != "holiday" {
		t.Errorf("all-day band = %v, want [holiday]", day.AllDay)
	}
}

func TestLayoutClipsToVisibleDay(t *testing.T) {
	e := testEngine(300)
	late := event.Event{
		ID:    "late",
		Start: time.Date(2026, time.March, 9, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC),
	}

	day1 := e.LayoutDay([]event.Event{late}, testDay)
	b, ok := day1.Box("late")
	if !ok {
		t.Fatal("event missing from its start day")
	}
	if b.Top != 23*60 || b.Height != 60 {
		t.Errorf("start day box = top %v height %v, want 1380/60", b.Top, b.Height)
	}

	day2 := e.LayoutDay([]event.Event{late}, testDay.AddDate(0, 0, 1))
	b, ok = day2.Box("late")
	if !ok {
		t.Fatal("event missing from its end day")
	}
	if b.Top != 0 || b.Height != 60 {
		t.Errorf("end day box = top %v height %v, want 0/60", b.Top, b.Height)
	}
}

func TestLayoutSkipsDegenerateEvents(t *testing.T) {
	day := testEngine(300).LayoutDay([]event.Event{
		ev("zero", 9, 0, 9, 0),
		ev("ok", 10, 0, 11, 0),
	}, testDay)

	if len(day.Boxes) != 1 || day.Boxes[0].EventID != "ok" {
		t.Errorf("degenerate event should drop silently, got %+v", day.Boxes)
	}
}

func TestBoxAtPrefersTopmost(t *testing.T) {
	day := testEngine(200).LayoutDay([]event.Event{
		ev("under", 9, 0, 11, 0),
		ev("over", 9, 30, 10, 30),
	}, testDay)

	under, _ := day.Box("under")
	over, _ := day.Box("over")

	// Inside over's box only.
	p := grid.Point{X: over.Left + 1, Y: over.Top + 1}
	if hit, ok := day.BoxAt(p); !ok || hit.EventID != "over" {
		t.Errorf("BoxAt(%+v) = %+v, want over", p, hit)
	}

	// Inside under's box only.
	p = grid.Point{X: under.Left + 1, Y: under.Top + 1}
	if hit, ok := day.BoxAt(p); !ok || hit.EventID != "under" {
		t.Errorf("BoxAt(%+v) = %+v, want under", p, hit)
	}

	// On the shared column edge both boxes contain the point; the higher
	// z-index wins.
	p = grid.Point{X: over.Left, Y: over.Top + 1}
	if hit, ok := day.BoxAt(p); !ok || hit.EventID != "over" {
		t.Errorf("BoxAt on shared edge = %+v, want over", hit)
	}

	if _, ok := day.BoxAt(grid.Point{X: 199, Y: 1430}); ok {
		t.Error("empty canvas should miss")
	}
}
