package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/store"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "empty means today",
			input: "",
		},
		{
			name:  "today keyword",
			input: "today",
		},
		{
			name:  "explicit date",
			input: "2026-03-09",
			want:  time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local),
		},
		{
			name:    "wrong layout",
			input:   "03/09/2026",
			wantErr: true,
		},
		{
			name:    "not a date",
			input:   "tomorrow",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if tt.want.IsZero() {
				// Today: midnight in the local zone
				now := time.Now()
				tt.want = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "bare clock on day",
			input: "09:30",
			want:  time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "midnight",
			input: "00:00",
			want:  day,
		},
		{
			name:  "full timestamp wins over day",
			input: "2026-04-01T14:00:00Z",
			want:  time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "half past nine",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClock(tt.input, day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSpan(t *testing.T) {
	timed := event.Event{
		Start: time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	allDay := event.Event{
		Start:  time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}

	tests := []struct {
		name     string
		ev       event.Event
		showDate bool
		want     string
	}{
		{name: "timed", ev: timed, want: "10:30–12:00"},
		{name: "timed with date", ev: timed, showDate: true, want: "2026-03-09 10:30–12:00"},
		{name: "all day", ev: allDay, want: "all day"},
		{name: "all day with date", ev: allDay, showDate: true, want: "2026-03-09 all day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSpan(tt.ev, tt.showDate); got != tt.want {
				t.Errorf("formatSpan() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEventTable(t *testing.T) {
	events := []event.Event{
		{
			ID:     "standup",
			Title:  "Standup",
			Start:  time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
			End:    time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC),
			Status: event.StatusConfirmed,
		},
		{
			ID:    "untitled",
			Start: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC),
		},
	}

	out := renderEventTable(events, false)

	for _, want := range []string{"ID", "Title", "When", "Status", "standup", "Standup", "09:00–09:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderEventTable() missing %q in:\n%s", want, out)
		}
	}
	// Missing title and status render as a placeholder, not empty cells
	if !strings.Contains(out, "—") {
		t.Error("renderEventTable() should render placeholders for missing fields")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	got := make(map[string]bool)
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	for _, want := range []string{"demo", "events", "layout", "replay", "fsm", "serve", "cache", "completion"} {
		if !got[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.Config.Store.Backend = store.BackendMemory

		s, err := c.openStore(ctx)
		if err != nil {
			t.Fatalf("openStore() error = %v", err)
		}
		defer s.Close(ctx)

		if err := s.Put(ctx, event.Event{
			ID:    "e1",
			Start: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Errorf("Put() error = %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.Config.Store.Backend = "cassandra"

		_, err := c.openStore(ctx)
		if err == nil {
			t.Fatal("openStore() should reject unknown backend")
		}
		if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig {
			t.Errorf("GetCode() = %v, want %v", code, errors.ErrCodeInvalidConfig)
		}
	})
}

func TestZoomChains(t *testing.T) {
	// Keyboard zoom walks month -> week -> day and back, never into agenda
	if len(narrower) != len(wider) {
		t.Errorf("narrower has %d entries, wider has %d", len(narrower), len(wider))
	}
	for from, to := range narrower {
		if back, ok := wider[to]; !ok || back != from {
			t.Errorf("wider[%s] = %s, want %s", to, back, from)
		}
	}
}

func TestResolveExportFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		output  string
		want    string
		wantErr bool
	}{
		{name: "default is ics", want: "ics"},
		{name: "explicit json", format: "json", want: "json"},
		{name: "explicit ics wins over extension", format: "ics", output: "out.json", want: "ics"},
		{name: "json by extension", output: "events.json", want: "json"},
		{name: "uppercase extension", output: "events.JSON", want: "json"},
		{name: "ics by extension", output: "events.ics", want: "ics"},
		{name: "unknown extension falls back", output: "events.txt", want: "ics"},
		{name: "invalid format", format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveExportFormat(tt.format, tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatal("resolveExportFormat should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveExportFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
