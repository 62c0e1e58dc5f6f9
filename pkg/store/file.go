package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// =============================================================================
// FileStore - File-Based Backend
// =============================================================================

// FileStore is a file-based event store for CLI applications. Each event
// is stored as one JSON file named <id>.json under the base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based event store.
// If baseDir is empty, defaults to $XDG_DATA_HOME/timegrid/events/
// (~/.local/share/timegrid/events/).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home dir: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		baseDir = filepath.Join(dataDir, "timegrid", "events")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create event dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory events are stored in.
func (s *FileStore) Dir() string { return s.baseDir }

// eventPath maps an ID to its file. IDs pass ValidateEventID before any
// write, so the join cannot escape baseDir.
func (s *FileStore) eventPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get retrieves an event by ID.
func (s *FileStore) Get(ctx context.Context, id string) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if err := apperrors.ValidateEventID(id); err != nil {
		return event.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.eventPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return event.Event{}, &apperrors.NotFoundError{Kind: "event", ID: id}
		}
		return event.Event{}, fmt.Errorf("read event file: %w", err)
	}

	var ev event.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return event.Event{}, fmt.Errorf("parse event %s: %w", id, err)
	}
	return ev, nil
}

// Put inserts or replaces an event.
func (s *FileStore) Put(ctx context.Context, ev event.Event) error {
	err := s.put(ctx, ev)
	observability.Store().OnMutation(ctx, BackendFile, "put", err)
	return err
}

func (s *FileStore) put(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkEvent(ev); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := os.WriteFile(s.eventPath(ev.ID), data, 0600); err != nil {
		return fmt.Errorf("write event file: %w", err)
	}
	return nil
}

// Delete removes an event. Absent IDs are ignored.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	observability.Store().OnMutation(ctx, BackendFile, "delete", err)
	return err
}

func (s *FileStore) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := apperrors.ValidateEventID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.eventPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove event file: %w", err)
	}
	return nil
}

// List returns every event sorted by start time, then ID.
func (s *FileStore) List(ctx context.Context) ([]event.Event, error) {
	out, err := s.load(ctx)
	observability.Store().OnLoad(ctx, BackendFile, len(out), err)
	return out, err
}

// Window returns the events overlapping [from, to).
func (s *FileStore) Window(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	all, err := s.load(ctx)
	if err != nil {
		observability.Store().OnLoad(ctx, BackendFile, 0, err)
		return nil, err
	}
	out := all[:0]
	for _, ev := range all {
		if inWindow(ev, from, to) {
			out = append(out, ev)
		}
	}
	observability.Store().OnLoad(ctx, BackendFile, len(out), nil)
	return out, nil
}

func (s *FileStore) load(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read event dir: %w", err)
	}

	out := make([]event.Event, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			if os.IsNotExist(err) {
				continue // removed between ReadDir and ReadFile
			}
			return nil, fmt.Errorf("read event file: %w", err)
		}
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("parse event %s: %w", entry.Name(), err)
		}
		out = append(out, ev)
	}
	sortEvents(out)
	return out, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Compile-time interface check.
var _ Store = (*FileStore)(nil)
