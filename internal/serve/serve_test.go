package serve

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/trace"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

var (
	day  = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	wall = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func testRouter() http.Handler {
	s := New(log.New(io.Discard), gesture.Options{}, viewmode.Options{})
	return s.Router()
}

// post runs a JSON request through the router and returns the response.
func post(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status": "ok"`) {
		t.Errorf("body = %q, want ok status", w.Body.String())
	}
}

func TestLayoutPositionsOverlappingEvents(t *testing.T) {
	req := LayoutRequest{
		Day:      day,
		Geometry: trace.Geometry{Width: 350, HourHeightPx: 60, SnapIntervalMin: 15},
		Events: []event.Event{
			{ID: "a", Start: at(9, 0), End: at(10, 0)},
			{ID: "b", Start: at(9, 30), End: at(10, 30)},
			{ID: "c", Start: at(11, 0), End: at(12, 0)},
		},
	}

	w := post(t, testRouter(), "/v1/layout", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	var d layout.Day
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(d.Boxes) != 3 {
		t.Fatalf("boxes = %d, want 3", len(d.Boxes))
	}

	for _, id := range []string{"a", "b"} {
		b, ok := d.Box(id)
		if !ok {
			t.Fatalf("box %s missing", id)
		}
		if b.Width != 175 {
			t.Errorf("box %s width = %v, want 175", id, b.Width)
		}
	}
	c, _ := d.Box("c")
	if c.Width != 350 || c.Left != 0 {
		t.Errorf("box c = %+v, want full width at left 0", c)
	}
}

func TestLayoutRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeError(t, w); body.Code != "INVALID_INPUT" {
		t.Errorf("code = %q, want INVALID_INPUT", body.Code)
	}
}

func TestLayoutRejectsMissingDay(t *testing.T) {
	req := LayoutRequest{
		Geometry: trace.Geometry{Width: 350},
		Events:   []event.Event{{ID: "a", Start: at(9, 0), End: at(10, 0)}},
	}

	w := post(t, testRouter(), "/v1/layout", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLayoutRejectsInvalidEvent(t *testing.T) {
	req := LayoutRequest{
		Day:      day,
		Geometry: trace.Geometry{Width: 350},
		Events:   []event.Event{{ID: "backwards", Start: at(10, 0), End: at(9, 0)}},
	}

	w := post(t, testRouter(), "/v1/layout", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	if body := decodeError(t, w); body.Code != "INVALID_EVENT" {
		t.Errorf("code = %q, want INVALID_EVENT", body.Code)
	}
}

func TestReplayCommitsRecordedDrag(t *testing.T) {
	pointerSample := func(phase gesture.Phase, x, y float64, offset time.Duration) trace.Sample {
		ev := gesture.PointerEvent{
			Phase:    phase,
			Position: grid.Point{X: x, Y: y},
			Time:     wall.Add(offset),
		}
		return trace.Sample{Kind: trace.SamplePointer, At: ev.Time, Pointer: &ev}
	}

	rec := trace.Recording{
		Name:       "drag-meeting",
		RecordedAt: wall,
		Day:        day,
		Geometry:   trace.Geometry{Width: 300, HourHeightPx: 60, SnapIntervalMin: 15},
		Events:     []event.Event{{ID: "meeting", Title: "Meeting", Start: at(10, 30), End: at(12, 0)}},
		Samples: []trace.Sample{
			pointerSample(gesture.PhaseBegan, 150, 670, 0),
			pointerSample(gesture.PhaseActive, 150, 700, 100*time.Millisecond),
			pointerSample(gesture.PhaseEnded, 150, 700, 200*time.Millisecond),
		},
	}

	w := post(t, testRouter(), "/v1/replay", rec)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	var res trace.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(res.Mutations) != 1 {
		t.Fatalf("mutations = %+v, want exactly one", res.Mutations)
	}
	got := res.Mutations[0]
	if got.Op != "move" || got.ID != "meeting" || !got.Start.Equal(at(11, 0)) || !got.End.Equal(at(12, 30)) {
		t.Errorf("mutation = %+v, want meeting moved to 11:00-12:30", got)
	}
	if res.FinalState != gesture.StateIdle {
		t.Errorf("final state = %v, want idle", res.FinalState)
	}
}

func TestReplayRejectsBrokenTrace(t *testing.T) {
	rec := trace.Recording{
		Name:     "broken",
		Day:      day,
		Geometry: trace.Geometry{Width: 300},
		Samples:  []trace.Sample{{Kind: trace.SamplePointer}},
	}

	w := post(t, testRouter(), "/v1/replay", rec)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	if body := decodeError(t, w); body.Code != "INVALID_TRACE" {
		t.Errorf("code = %q, want INVALID_TRACE", body.Code)
	}
}
