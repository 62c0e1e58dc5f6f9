package store

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/matzehuels/timegrid/pkg/event"
)

// =============================================================================
// ICS - iCalendar Interchange
// =============================================================================

const (
	icsProductID = "-//timegrid//timegrid//EN"
	icsVersion   = "2.0"

	// RFC 7986 display properties without go-ical constants.
	propColor          = "COLOR"
	propCalendarName   = "X-WR-CALNAME"
	defaultTimedLength = 30 * time.Minute
)

var statusToICS = map[string]string{
	event.StatusConfirmed: "CONFIRMED",
	event.StatusTentative: "TENTATIVE",
	event.StatusCancelled: "CANCELLED",
}

var statusFromICS = map[string]string{
	"CONFIRMED": event.StatusConfirmed,
	"TENTATIVE": event.StatusTentative,
	"CANCELLED": event.StatusCancelled,
}

// ReadICS decodes the VEVENT components of an iCalendar stream into
// events.
//
// Each VEVENT becomes one [event.Event]:
//   - UID becomes the ID; components without a UID get a generated one
//   - SUMMARY, STATUS and COLOR map to Title, Status and Color
//   - DTSTART with VALUE=DATE marks the event all-day
//   - A missing DTEND defaults to one day for all-day events and to
//     30 minutes otherwise
//
// Floating times (no TZID, no Z suffix) resolve in the local timezone.
// Recurrence rules are not expanded; a recurring VEVENT yields its first
// occurrence only. ReadICS does not close r.
func ReadICS(r io.Reader) ([]event.Event, error) {
	var out []event.Event
	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			ev, err := eventFromComponent(comp)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

func eventFromComponent(comp *ical.Component) (event.Event, error) {
	var ev event.Event

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		ev.ID = prop.Value
	} else {
		ev.ID = uuid.NewString()
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		ev.Title = prop.Value
	}
	if prop := comp.Props.Get(ical.PropStatus); prop != nil {
		ev.Status = statusFromICS[prop.Value]
	}
	if prop := comp.Props.Get(propColor); prop != nil {
		ev.Color = prop.Value
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return event.Event{}, fmt.Errorf("event %s: missing DTSTART", ev.ID)
	}
	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return event.Event{}, fmt.Errorf("event %s: parse DTSTART: %w", ev.ID, err)
	}
	ev.Start = start
	ev.AllDay = startProp.ValueType() == ical.ValueDate

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		end, err := endProp.DateTime(time.Local)
		if err != nil {
			return event.Event{}, fmt.Errorf("event %s: parse DTEND: %w", ev.ID, err)
		}
		ev.End = end
	} else if ev.AllDay {
		ev.End = ev.Start.AddDate(0, 0, 1)
	} else {
		ev.End = ev.Start.Add(defaultTimedLength)
	}

	if prop := comp.Props.Get(ical.PropCreated); prop != nil {
		if t, err := prop.DateTime(time.Local); err == nil {
			ev.CreatedAt = t
		}
	}
	if prop := comp.Props.Get(ical.PropLastModified); prop != nil {
		if t, err := prop.DateTime(time.Local); err == nil {
			ev.UpdatedAt = t
		}
	}

	if err := ev.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	return ev, nil
}

// WriteICS encodes events as a single VCALENDAR and writes it to w.
// calName, if non-empty, becomes the calendar's display name. The output
// can be re-imported with [ReadICS] and is understood by common calendar
// applications.
func WriteICS(w io.Writer, events []event.Event, calName string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, icsVersion)
	cal.Props.SetText(ical.PropProductID, icsProductID)
	if calName != "" {
		cal.Props.SetText(propCalendarName, calName)
	}

	for _, ev := range events {
		comp, err := componentFromEvent(ev)
		if err != nil {
			return err
		}
		cal.Children = append(cal.Children, comp)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func componentFromEvent(ev event.Event) (*ical.Component, error) {
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	out := ical.NewEvent()
	out.Props.SetText(ical.PropUID, ev.ID)
	if ev.Title != "" {
		out.Props.SetText(ical.PropSummary, ev.Title)
	}
	if s, ok := statusToICS[ev.Status]; ok {
		out.Props.SetText(ical.PropStatus, s)
	}
	if ev.Color != "" {
		out.Props.SetText(propColor, ev.Color)
	}

	if ev.AllDay {
		setDate(out.Props, ical.PropDateTimeStart, ev.Start)
		setDate(out.Props, ical.PropDateTimeEnd, ev.End)
	} else {
		out.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
		out.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	}

	stamp := ev.UpdatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	out.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	if !ev.CreatedAt.IsZero() {
		out.Props.SetDateTime(ical.PropCreated, ev.CreatedAt.UTC())
	}
	if !ev.UpdatedAt.IsZero() {
		out.Props.SetDateTime(ical.PropLastModified, ev.UpdatedAt.UTC())
	}
	return out.Component, nil
}

// setDate writes a VALUE=DATE property, the all-day form of DTSTART/DTEND.
func setDate(props ical.Props, name string, t time.Time) {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDate)
	prop.Value = t.Format("20060102")
	props.Set(prop)
}

// ImportICS reads an iCalendar file at path and returns the decoded
// events. See [ReadICS] for the mapping.
func ImportICS(path string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadICS(f)
}

// ExportICS writes events to an iCalendar file at path.
// This is a convenience wrapper around [WriteICS] for file-based output.
func ExportICS(path string, events []event.Event, calName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteICS(f, events, calName)
}
