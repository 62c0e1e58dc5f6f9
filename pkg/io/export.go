package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/timegrid/pkg/event"
)

type document struct {
	Calendar string        `json:"calendar,omitempty"`
	Events   []event.Event `json:"events"`
}

// WriteJSON encodes events as a JSON document and writes it to w.
// calName, if non-empty, becomes the document's calendar name. The
// output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(w io.Writer, events []event.Event, calName string) error {
	out := document{Calendar: calName, Events: events}
	if out.Events == nil {
		out.Events = []event.Event{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes events to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(path string, events []event.Event, calName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, events, calName)
}
