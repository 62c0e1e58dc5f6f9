// Package store persists calendar events behind a small interface.
//
// This package defines the event storage contract with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - redis: Redis-backed storage for shared deployments
//   - mongo: MongoDB-backed storage for larger datasets
//
// # Architecture
//
// Stores hold [event.Event] values keyed by ID. The Store interface
// supports:
//   - Get/Put/Delete operations
//   - Sorted listing and time-window queries
//   - Context cancellation on every call
//
// Window queries use half-open overlap: an event belongs to [from, to)
// when it starts before to and ends after from, so back-to-back events
// never bleed into the neighbouring window.
//
// # Usage
//
// Create a store:
//
//	// Development
//	store := NewMemoryStore()
//
//	// CLI
//	store, err := NewFileStore("")  // Uses ~/.local/share/timegrid/events/
//
//	// Shared deployments
//	store, err := NewRedisStore(ctx, "redis://localhost:6379/0")
//
// Query a day and commit a gesture:
//
//	events, err := Day(ctx, store, day)
//	...
//	moved, err := Reschedule(ctx, store, id, newStart, newEnd)
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/grid"
)

// Backend names, used in profiles and as hook labels.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Store is the interface for event storage backends.
type Store interface {
	// Get retrieves an event by ID.
	// Returns a NotFoundError if the event doesn't exist.
	Get(ctx context.Context, id string) (event.Event, error)

	// Put inserts or replaces an event after validating it.
	Put(ctx context.Context, ev event.Event) error

	// Delete removes an event. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every event sorted by start time, then ID.
	List(ctx context.Context) ([]event.Event, error)

	// Window returns the events overlapping [from, to), sorted by start
	// time, then ID.
	Window(ctx context.Context, from, to time.Time) ([]event.Event, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID returns a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// Day returns the events overlapping the calendar day containing t,
// in t's location.
func Day(ctx context.Context, s Store, t time.Time) ([]event.Event, error) {
	return s.Window(ctx, grid.DayStart(t), grid.DayEnd(t))
}

// Reschedule moves an event held in s to a new start and end, stamping the
// update time. It is the commit path for move and resize gestures.
func Reschedule(ctx context.Context, s Store, id string, start, end time.Time) (event.Event, error) {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}
	ev.Start, ev.End = start, end
	ev.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

// checkEvent gates every write. Structural validity plus ID and color
// hygiene; IDs become file names and database keys.
func checkEvent(ev event.Event) error {
	if err := apperrors.ValidateEventID(ev.ID); err != nil {
		return err
	}
	if err := apperrors.ValidateColor(ev.Color); err != nil {
		return err
	}
	if err := ev.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidEvent, err, "invalid event %s", ev.ID)
	}
	return nil
}

// sortEvents orders events by start time, then ID, so equal inputs always
// list identically.
func sortEvents(events []event.Event) {
	slices.SortFunc(events, func(a, b event.Event) int {
		if !a.Start.Equal(b.Start) {
			if a.Start.Before(b.Start) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// inWindow reports whether ev overlaps [from, to).
func inWindow(ev event.Event, from, to time.Time) bool {
	return ev.Start.Before(to) && ev.End.After(from)
}
