// Package event defines the calendar entry model and the validation gate
// that every gesture-proposed mutation passes through before commit.
package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/timegrid/pkg/grid"
)

// =============================================================================
// Constants
// =============================================================================

// Event statuses carried by common calendar feeds.
const (
	StatusConfirmed = "confirmed"
	StatusTentative = "tentative"
	StatusCancelled = "cancelled"
)

// Sentinel errors for structural validation.
var (
	// ErrMissingID indicates an event without an identifier.
	ErrMissingID = errors.New("event has no ID")
	// ErrInvalidRange indicates an event whose end does not follow its start.
	ErrInvalidRange = errors.New("event end must be after start")
)

// =============================================================================
// Event - Calendar Entry
// =============================================================================

// Event is a single calendar entry. Start and End are instants with End
// strictly after Start; ranges are half-open [Start, End), so an event
// ending exactly when another begins does not overlap it.
//
// Events are owned by the surrounding store. The interaction layer reads
// them and proposes new Start/End pairs through [Validator]; it never
// mutates an Event in place.
type Event struct {
	ID         string    `json:"id" bson:"_id"`
	CalendarID string    `json:"calendar_id,omitempty" bson:"calendar_id,omitempty"`
	Title      string    `json:"title" bson:"title"`
	Start      time.Time `json:"start" bson:"start"`
	End        time.Time `json:"end" bson:"end"`
	AllDay     bool      `json:"all_day,omitempty" bson:"all_day,omitempty"`
	Color      string    `json:"color,omitempty" bson:"color,omitempty"` // Display hint, e.g. "#4285f4"
	Status     string    `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Duration returns the event's length.
func (e Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// Overlaps reports whether e and f share any time.
func (e Event) Overlaps(f Event) bool {
	return e.Start.Before(f.End) && f.Start.Before(e.End)
}

// OnDay reports whether any part of e falls on t's calendar day.
func (e Event) OnDay(t time.Time) bool {
	return e.Start.Before(grid.DayEnd(t)) && e.End.After(grid.DayStart(t))
}

// Validate checks structural integrity before a store write.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrMissingID
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("event %s: %w", e.ID, ErrInvalidRange)
	}
	return nil
}
