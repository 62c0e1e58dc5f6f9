// Package trace captures pointer sessions and replays them.
//
// A [Recording] is a self-contained session: the day that was on screen,
// the events loaded into it, the grid geometry, and every input sample in
// arrival order. Recordings serialize to JSON, so a misbehaving gesture
// reported in the field can be replayed sample-by-sample against the
// recognizer at the exact geometry it happened in.
//
// # Usage
//
// Record a live session by routing input through a [Recorder]:
//
//	rec := trace.NewRecorder(machine, "drag-bug", day, geo, events)
//	rec.Handle(pointerEvent) // instead of machine.Handle
//	...
//	trace.Save(rec.Recording(), "drag-bug.json")
//
// Replay it later:
//
//	recording, err := trace.Load("drag-bug.json")
//	result, err := trace.Replay(recording, gesture.Options{}, viewmode.Options{})
package trace

import (
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/grid"
)

// Sample kinds.
const (
	SamplePointer = "pointer"
	SamplePinch   = "pinch"
	SampleTick    = "tick"
)

// Sample is one captured input. Pointer and Pinch are set for their kinds;
// tick samples carry only At, the clock poke that fires pure time-based
// transitions such as long-press.
type Sample struct {
	Kind    string                `json:"kind"`
	At      time.Time             `json:"at"`
	Pointer *gesture.PointerEvent `json:"pointer,omitempty"`
	Pinch   *gesture.PinchEvent   `json:"pinch,omitempty"`
}

// Geometry pins the pixel mapping a session ran under. Hit-testing and
// snapping both depend on it, so replays reuse it verbatim.
type Geometry struct {
	Width           float64 `json:"width"`
	HourHeightPx    float64 `json:"hour_height_px"`
	SnapIntervalMin int     `json:"snap_interval_min"`
}

// Mapper rebuilds the recorded time scale.
func (g Geometry) Mapper() grid.Mapper {
	return grid.NewMapper(g.HourHeightPx, time.Duration(g.SnapIntervalMin)*time.Minute)
}

// GeometryOf captures a mapper and surface width.
func GeometryOf(m grid.Mapper, width float64) Geometry {
	return Geometry{
		Width:           width,
		HourHeightPx:    m.HourHeight,
		SnapIntervalMin: int(m.SnapInterval / time.Minute),
	}
}

// Recording is a captured session.
type Recording struct {
	Name       string        `json:"name,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
	Day        time.Time     `json:"day"`
	Geometry   Geometry      `json:"geometry"`
	Events     []event.Event `json:"events"`
	Samples    []Sample      `json:"samples"`
}

// Duration returns the wall-clock span of the recorded input stream.
func (r Recording) Duration() time.Duration {
	if len(r.Samples) < 2 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].At.Sub(r.Samples[0].At)
}

// =============================================================================
// Recorder - Capture Live Input
// =============================================================================

// Recorder forwards inputs to a machine while capturing them. Route every
// sample the platform delivers through the recorder instead of the machine
// and the recording stays faithful to what the machine saw.
type Recorder struct {
	machine *gesture.Machine
	rec     Recording
}

// NewRecorder wraps machine with a capture of the given day, geometry and
// event set.
func NewRecorder(machine *gesture.Machine, name string, day time.Time, geo Geometry, events []event.Event) *Recorder {
	return &Recorder{
		machine: machine,
		rec: Recording{
			Name:       name,
			RecordedAt: time.Now().UTC(),
			Day:        day,
			Geometry:   geo,
			Events:     events,
		},
	}
}

// Handle captures a pointer sample and forwards it.
func (r *Recorder) Handle(ev gesture.PointerEvent) {
	p := ev
	r.rec.Samples = append(r.rec.Samples, Sample{Kind: SamplePointer, At: ev.Time, Pointer: &p})
	r.machine.Handle(ev)
}

// HandlePinch captures a pinch sample and forwards it.
func (r *Recorder) HandlePinch(ev gesture.PinchEvent) {
	p := ev
	r.rec.Samples = append(r.rec.Samples, Sample{Kind: SamplePinch, At: ev.Time, Pinch: &p})
	r.machine.HandlePinch(ev)
}

// Tick captures a clock poke and forwards it.
func (r *Recorder) Tick(now time.Time) {
	r.rec.Samples = append(r.rec.Samples, Sample{Kind: SampleTick, At: now})
	r.machine.Tick(now)
}

// Recording returns the capture so far.
func (r *Recorder) Recording() Recording { return r.rec }
