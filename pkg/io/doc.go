// Package io provides JSON import and export for event lists.
//
// # Overview
//
// This package serializes calendar events to and from a simple JSON
// document. The format is designed for:
//
//   - Moving events between stores without going through iCalendar
//   - Integration with external tools that produce or consume event data
//   - Fixture files for tests and demos
//   - Round-trip preservation: import, mutate, export, and re-import
//
// # JSON Format
//
// The document has one required top-level array and an optional calendar
// name:
//
//	{
//	  "calendar": "team",
//	  "events": [
//	    {"id": "standup", "title": "Daily standup",
//	     "start": "2026-03-09T09:00:00Z", "end": "2026-03-09T09:30:00Z"},
//	    {"id": "offsite", "title": "Team offsite",
//	     "start": "2026-03-10T00:00:00Z", "end": "2026-03-11T00:00:00Z",
//	     "all_day": true}
//	  ]
//	}
//
// # Event Fields
//
// Required:
//   - id: Unique string identifier
//   - start, end: RFC 3339 timestamps with end strictly after start
//
// Optional:
//   - title, calendar_id, color, status, all_day
//   - created_at, updated_at: audit timestamps
//
// # Import
//
// Use [ImportJSON] to read events from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	events, err := io.ImportJSON("events.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the document: every event passes structural
// validation and IDs must be unique. Errors are wrapped with context
// about which event caused the problem.
//
// # Export
//
// Use [ExportJSON] to write events to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	err := io.ExportJSON("output.json", events, "team")
//
// The export preserves all event fields, so an exported document
// re-imports identically.
package io
