package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
)

func sampleEvents() []event.Event {
	return []event.Event{
		{
			ID:    "standup",
			Title: "Daily standup",
			Start: time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:     "offsite",
			Title:  "Team offsite",
			Start:  time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
			AllDay: true,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, events, "team"); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"calendar": "team"`) {
		t.Error("document should carry the calendar name")
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].ID != "standup" || got[1].ID != "offsite" {
		t.Errorf("order = %s, %s; want standup, offsite", got[0].ID, got[1].ID)
	}
	if !got[1].AllDay {
		t.Error("all_day flag lost in round trip")
	}
	if !got[0].Start.Equal(events[0].Start) {
		t.Errorf("Start = %v, want %v", got[0].Start, events[0].Start)
	}
}

func TestReadJSONSortsByStart(t *testing.T) {
	input := `{
  "events": [
    {"id": "late", "start": "2026-03-09T15:00:00Z", "end": "2026-03-09T16:00:00Z"},
    {"id": "early", "start": "2026-03-09T08:00:00Z", "end": "2026-03-09T09:00:00Z"},
    {"id": "b", "start": "2026-03-09T08:00:00Z", "end": "2026-03-09T10:00:00Z"},
    {"id": "a", "start": "2026-03-09T08:00:00Z", "end": "2026-03-09T10:00:00Z"}
  ]
}`

	events, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	want := []string{"a", "b", "early", "late"}
	for i, id := range want {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %s, want %s", i, events[i].ID, id)
		}
	}
}

func TestReadJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed json",
			input:   `{not json`,
			wantErr: "decode",
		},
		{
			name:    "missing id",
			input:   `{"events": [{"start": "2026-03-09T09:00:00Z", "end": "2026-03-09T10:00:00Z"}]}`,
			wantErr: "no ID",
		},
		{
			name:    "backwards range",
			input:   `{"events": [{"id": "x", "start": "2026-03-09T10:00:00Z", "end": "2026-03-09T09:00:00Z"}]}`,
			wantErr: "end must be after start",
		},
		{
			name: "duplicate id",
			input: `{"events": [
				{"id": "x", "start": "2026-03-09T09:00:00Z", "end": "2026-03-09T10:00:00Z"},
				{"id": "x", "start": "2026-03-09T11:00:00Z", "end": "2026-03-09T12:00:00Z"}
			]}`,
			wantErr: "duplicate ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestImportExportFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	if err := ExportJSON(path, sampleEvents(), "team"); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	events, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON should fail for a missing file")
	}
}

func TestWriteJSONEmptySlice(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, ""); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"events": []`) {
		t.Errorf("nil events should encode as an empty array, got:\n%s", buf.String())
	}
}
