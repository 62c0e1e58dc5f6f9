package trace

import (
	"fmt"
	"time"

	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

// =============================================================================
// Replay - Run a Recording Against a Fresh Machine
// =============================================================================

// Mutation is one committed change proposed during a replay.
type Mutation struct {
	Op    string    `json:"op"` // move, resize or create
	ID    string    `json:"id,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Result is everything a replayed input stream committed, in order.
type Result struct {
	Mutations   []Mutation             `json:"mutations,omitempty"`
	Taps        []string               `json:"taps,omitempty"`
	Selections  [][]string             `json:"selections,omitempty"`
	Feedback    []gesture.FeedbackKind `json:"feedback,omitempty"`
	Navigations []time.Time            `json:"navigations,omitempty"`
	Modes       []viewmode.Mode        `json:"modes,omitempty"`
	FinalState  gesture.State          `json:"final_state"`
	FinalMode   viewmode.Mode          `json:"final_mode"`
	FinalAnchor time.Time              `json:"final_anchor"`
}

// Replay runs a recording against a fresh recognizer and reports what it
// committed. The machine and view options tune the recognizer under test;
// zero values replay at the defaults. Geometry, day and events come from
// the recording itself.
func Replay(rec Recording, mopts gesture.Options, vopts viewmode.Options) (Result, error) {
	var res Result

	if vopts.Mode == "" {
		vopts.Mode = viewmode.ModeDay
	}
	vopts.Anchor = rec.Day
	view, err := viewmode.NewController(vopts, viewmode.Callbacks{
		OnNavigate: func(anchor time.Time) {
			res.Navigations = append(res.Navigations, anchor)
		},
		OnModeChange: func(mode viewmode.Mode) {
			res.Modes = append(res.Modes, mode)
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("replay view: %w", err)
	}
	view.SetWidth(rec.Geometry.Width)

	machine, err := gesture.NewMachine(rec.Geometry.Mapper(), view, mopts, gesture.Callbacks{
		OnEventMove: func(id string, start, end time.Time) {
			res.Mutations = append(res.Mutations, Mutation{Op: "move", ID: id, Start: start, End: end})
		},
		OnEventResize: func(id string, start, end time.Time) {
			res.Mutations = append(res.Mutations, Mutation{Op: "resize", ID: id, Start: start, End: end})
		},
		OnEventCreate: func(start, end time.Time) {
			res.Mutations = append(res.Mutations, Mutation{Op: "create", Start: start, End: end})
		},
		OnEventTap: func(id string) {
			res.Taps = append(res.Taps, id)
		},
		OnSelectionChange: func(ids []string) {
			res.Selections = append(res.Selections, ids)
		},
		OnGestureFeedback: func(kind gesture.FeedbackKind) {
			res.Feedback = append(res.Feedback, kind)
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("replay machine: %w", err)
	}

	engine := layout.NewEngine(rec.Geometry.Mapper(), rec.Geometry.Width)
	machine.SetDay(engine.LayoutDay(rec.Events, rec.Day), rec.Events)

	for i, s := range rec.Samples {
		if err := checkSample(s); err != nil {
			return Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		switch s.Kind {
		case SamplePointer:
			machine.Handle(*s.Pointer)
		case SamplePinch:
			machine.HandlePinch(*s.Pinch)
		case SampleTick:
			machine.Tick(s.At)
		}
	}

	res.FinalState = machine.Snapshot().State
	res.FinalMode = view.Mode()
	res.FinalAnchor = view.Anchor()
	return res, nil
}
