package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/matzehuels/timegrid/pkg/event"
)

// ReadJSON decodes a JSON event document from r.
//
// The input must be a JSON object with an "events" array; see the
// package documentation for the full format. ReadJSON returns an error
// if:
//
//   - The JSON is malformed
//   - An event fails structural validation (missing ID, end not after start)
//   - Two events share an ID
//
// Errors are wrapped with context describing which event caused the
// problem. Events come back sorted by start time, ties broken by ID,
// matching the order the store's queries return.
//
// The returned slice is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]event.Event, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[string]bool, len(data.Events))
	for _, ev := range data.Events {
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		if seen[ev.ID] {
			return nil, fmt.Errorf("event %s: duplicate ID", ev.ID)
		}
		seen[ev.ID] = true
	}

	events := data.Events
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// ImportJSON reads a JSON file at path and returns the decoded events.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. It returns the same validation errors as [ReadJSON] for
// malformed documents, wrapped with the file path for context.
func ImportJSON(path string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
