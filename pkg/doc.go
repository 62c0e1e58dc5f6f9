// Package pkg provides the core libraries for Timegrid calendar interaction.
//
// # Overview
//
// Timegrid turns raw pointer input on a day-grid calendar into validated
// event mutations: drags move events, edge drags resize them, presses on
// empty grid create them, and every intermediate position snaps to the
// grid's time resolution. The pkg directory is organized into five main
// areas:
//
//  1. Geometry ([grid], [layout]) - time ↔ pixel mapping and overlap layout
//  2. Interaction ([gesture], [viewmode], [selection]) - recognizers and view state
//  3. Data ([event], [store], [io], [feed]) - calendar entries and persistence
//  4. Tooling ([trace], [render]) - session recording, replay, and FSM diagrams
//  5. Infrastructure ([config], [errors], [httputil], [observability]) - profiles,
//     coded errors, caching, and instrumentation hooks
//
// # Architecture
//
// The typical data flow through Timegrid:
//
//	Pointer/Pinch Samples
//	         ↓
//	    [gesture] package (classify + track the session)
//	         ↓
//	    [grid] package (pixels ↔ times, snapping)
//	         ↓
//	    [layout] package (overlap columns, hit testing)
//	         ↓
//	    Committed mutations → [store] package
//
// The [viewmode] controller runs beside the machine: pinches and edge pans
// switch between month, week, day, and agenda instead of moving events.
//
// # Quick Start
//
// Wire a machine and drive it with pointer samples:
//
//	import (
//	    "github.com/matzehuels/timegrid/pkg/gesture"
//	    "github.com/matzehuels/timegrid/pkg/grid"
//	    "github.com/matzehuels/timegrid/pkg/viewmode"
//	)
//
//	// 1. Geometry: 60px per hour, 15-minute snapping
//	m := grid.NewMapper(grid.DefaultHourHeight, grid.DefaultSnapInterval)
//
//	// 2. View state (month/week/day/agenda)
//	view, _ := viewmode.NewController(viewmode.Options{}, viewmode.Callbacks{})
//
//	// 3. Recognizer with mutation callbacks
//	machine, _ := gesture.NewMachine(m, view, gesture.Options{}, gesture.Callbacks{
//	    OnEventMove: func(id string, start, end time.Time) {
//	        // persist the reschedule
//	    },
//	})
//	machine.SetDay(day, events)
//
//	// 4. Feed it samples from the UI layer
//	machine.Handle(gesture.PointerEvent{Phase: gesture.PhaseBegan, Position: p, Time: now})
//
// # Main Packages
//
// ## Geometry
//
// [grid] - The time ↔ pixel contract. A [grid.Mapper] converts y-offsets to
// clock times and back, clamps to the day, and snaps durations to the grid
// resolution. Every other package computes through it; none invert the
// mapping themselves.
//
// [layout] - Overlap resolution. Overlapping events split the day column
// into side-by-side sub-columns; the engine assigns each event a box with
// fractional left/width and a z-index, and answers point queries for hit
// testing.
//
// ## Interaction
//
// [gesture] - The pointer state machine. Press, long-press, drag, resize,
// rubber-band select, and pan are classified from position, translation,
// and velocity; proposed times are validated and either committed through
// callbacks or rolled back.
//
// [viewmode] - View-mode control: month, week, day, agenda. Horizontal pans
// navigate, pinches zoom between modes, and callbacks report mode and
// anchor changes.
//
// [selection] - Rubber-band multi-selection over laid-out boxes. Coverage
// is rectangle intersection against the day's layout.
//
// ## Data
//
// [event] - The calendar entry: identity, time range, all-day flag, color,
// status. Validation rules live here.
//
// [store] - Persistence backends behind one interface: file (JSON on disk),
// memory (testing), Redis, and MongoDB. Includes iCalendar import/export
// via go-ical.
//
// [io] - JSON event documents for import/export and fixtures.
//
// [feed] - Remote iCalendar subscriptions (http, https, webcal) with a
// TTL cache and retry on transient failures.
//
// ## Tooling
//
// [trace] - Record and replay. A recorder captures the samples fed to a
// live machine together with geometry and events; replay re-runs them
// headlessly and reports committed mutations, for regression fixtures and
// profile tuning.
//
// [render] - State-machine diagrams. Emits the gesture transition table as
// DOT and rasterizes to SVG/PNG via Graphviz.
//
// ## Infrastructure
//
// [config] - TOML profiles for geometry, recognizer thresholds, view
// behavior, and the store backend.
//
// [errors] - Coded errors with stable machine-readable codes and
// user-facing messages.
//
// [httputil] - Filesystem TTL cache and retry-with-backoff used by the
// feed client.
//
// [observability] - Pluggable hooks for gesture, layout, and store
// instrumentation. No-ops unless set.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Common Workflows
//
// Lay out a day:
//
//	engine := layout.NewEngine(m, 300)
//	day := engine.LayoutDay(events, date)
//	if box, ok := day.BoxAt(p); ok {
//	    fmt.Println("pressed", box.EventID)
//	}
//
// Record a session and replay it later:
//
//	rec := trace.NewRecorder(machine, "drag-meeting", day, trace.GeometryOf(m, 300), events)
//	rec.Handle(sample)            // forwards to the machine
//	trace.Save(rec.Recording(), "drag-meeting.json")
//
//	result, _ := trace.Replay(loaded, gesture.Options{}, viewmode.Options{})
//	for _, mut := range result.Mutations {
//	    fmt.Println(mut.Kind, mut.EventID, mut.Start)
//	}
//
// Subscribe to a feed:
//
//	cache, _ := feed.NewCache(feed.DefaultTTL)
//	events, _ := feed.NewClient(cache).Fetch(ctx, "webcal://example.com/team.ics", false)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/gesture/...     # Specific package
//	go test -run Example          # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/layout
// [gesture]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/gesture
// [viewmode]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/viewmode
// [selection]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/selection
// [event]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/event
// [store]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/store
// [io]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/io
// [feed]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/feed
// [trace]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/trace
// [render]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/buildinfo
// [grid.Mapper]: https://pkg.go.dev/github.com/matzehuels/timegrid/pkg/grid#Mapper
package pkg
