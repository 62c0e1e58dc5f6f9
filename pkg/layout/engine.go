package layout

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// =============================================================================
// Box - Rendered Event Footprint
// =============================================================================

// Box is the rendered footprint of one event on the day grid, in pixels.
// Boxes are derived and disposable: they are recomputed from events and
// geometry on every layout pass, never persisted, and never a source of
// truth for time.
type Box struct {
	EventID string  `json:"event_id" bson:"event_id"`
	Top     float64 `json:"top" bson:"top"`
	Height  float64 `json:"height" bson:"height"`
	Left    float64 `json:"left" bson:"left"`
	Width   float64 `json:"width" bson:"width"`
	Column  int     `json:"column" bson:"column"`
	Columns int     `json:"columns" bson:"columns"` // Column count of the box's overlap cluster
	ZIndex  int     `json:"z_index" bson:"z_index"`
}

// Rect returns the box's hit area.
func (b Box) Rect() grid.Rect {
	return grid.Rect{MinX: b.Left, MinY: b.Top, MaxX: b.Left + b.Width, MaxY: b.Top + b.Height}
}

// =============================================================================
// Day - Computed Day Layout
// =============================================================================

// Day is the computed layout for one visible day: positioned boxes for the
// timed events plus the IDs routed to the all-day band above the grid.
type Day struct {
	Date   time.Time `json:"date" bson:"date"`
	Boxes  []Box     `json:"boxes" bson:"boxes"`
	AllDay []string  `json:"all_day,omitempty" bson:"all_day,omitempty"`
}

// Box returns the box for an event ID.
func (d Day) Box(id string) (Box, bool) {
	for _, b := range d.Boxes {
		if b.EventID == id {
			return b, true
		}
	}
	return Box{}, false
}

// BoxAt returns the box under p. When stacked boxes both contain p, the one
// with the higher z-index wins, matching what a renderer puts on top.
func (d Day) BoxAt(p grid.Point) (Box, bool) {
	var hit Box
	found := false
	for _, b := range d.Boxes {
		if !b.Rect().Contains(p) {
			continue
		}
		if !found || b.ZIndex > hit.ZIndex {
			hit = b
			found = true
		}
	}
	return hit, found
}

// =============================================================================
// Engine - Overlap Resolution
// =============================================================================

// Engine computes day layouts from events and container geometry. It is a
// pure function holding no cross-call state; the same events and geometry
// always produce the same boxes.
type Engine struct {
	Mapper grid.Mapper
	Width  float64 // Container width in pixels
}

// NewEngine returns an Engine for the given grid metrics and width.
func NewEngine(m grid.Mapper, width float64) Engine {
	return Engine{Mapper: m, Width: width}
}

// LayoutDay positions every event visible on day's grid.
//
// Timed events sort by start time (ties by ID, so unchanged input yields an
// identical layout) and sweep through an active list. Each event takes the
// lowest column index free among the events still active at its start.
// Events overlapping transitively form a cluster; every box in a cluster
// shares the cluster's column count, which equals the maximum number of
// simultaneously active events anywhere in it. Width divides evenly among
// columns. Touching events, where one ends exactly when the next starts, do
// not overlap and stack full-width instead of side by side.
//
// All-day events skip overlap resolution entirely and surface in
// [Day.AllDay]. Events crossing midnight clip to the visible day.
func (e Engine) LayoutDay(events []event.Event, day time.Time) Day {
	observability.Layout().OnLayoutStart(len(events))
	started := time.Now()

	out := Day{Date: grid.DayStart(day)}

	timed := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if !ev.OnDay(day) || !ev.End.After(ev.Start) {
			continue
		}
		if ev.AllDay {
			out.AllDay = append(out.AllDay, ev.ID)
			continue
		}
		timed = append(timed, ev)
	}
	slices.Sort(out.AllDay)
	if len(timed) == 0 {
		observability.Layout().OnLayoutComplete(len(events), 0, time.Since(started))
		return out
	}

	slices.SortFunc(timed, func(a, b event.Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	columns := make([]int, len(timed))
	clusterOf := make([]int, len(timed))
	clusterColumns := []int{0}

	var actives []active
	cluster := 0
	for i, ev := range timed {
		kept := actives[:0]
		for _, a := range actives {
			if a.end.After(ev.Start) {
				kept = append(kept, a)
			}
		}
		actives = kept

		// Nothing active overlaps this event: the previous cluster is
		// complete and a fresh one begins with column numbering reset.
		if len(actives) == 0 && i > 0 {
			cluster++
			clusterColumns = append(clusterColumns, 0)
		}

		col := 0
		for isColumnTaken(actives, col) {
			col++
		}
		columns[i] = col
		clusterOf[i] = cluster
		actives = append(actives, active{column: col, end: ev.End})
		if len(actives) > clusterColumns[cluster] {
			clusterColumns[cluster] = len(actives)
		}
	}

	dayStart := grid.DayStart(day)
	dayEnd := grid.DayEnd(day)
	out.Boxes = make([]Box, len(timed))
	for i, ev := range timed {
		start, end := ev.Start, ev.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}

		n := clusterColumns[clusterOf[i]]
		width := e.Width / float64(n)
		top := e.Mapper.HeightFor(start.Sub(dayStart))
		out.Boxes[i] = Box{
			EventID: ev.ID,
			Top:     top,
			Height:  e.Mapper.HeightFor(end.Sub(dayStart)) - top,
			Left:    float64(columns[i]) * width,
			Width:   width,
			Column:  columns[i],
			Columns: n,
			ZIndex:  columns[i],
		}
	}

	observability.Layout().OnLayoutComplete(len(events), len(clusterColumns), time.Since(started))
	return out
}

// active tracks one event still open during the sweep.
type active struct {
	column int
	end    time.Time
}

func isColumnTaken(actives []active, col int) bool {
	for _, a := range actives {
		if a.column == col {
			return true
		}
	}
	return false
}
