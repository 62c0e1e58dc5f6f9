package store

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// =============================================================================
// MemoryStore - In-Memory Backend
// =============================================================================

// MemoryStore keeps events in a map guarded by a RWMutex. It is the
// default backend for demos and tests; contents vanish with the process.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

// NewMemoryStore creates an empty in-memory store, seeded with any events
// given. Seed events skip validation; they are assumed well-formed.
func NewMemoryStore(seed ...event.Event) *MemoryStore {
	s := &MemoryStore{events: make(map[string]event.Event, len(seed))}
	for _, ev := range seed {
		s.events[ev.ID] = ev
	}
	return s
}

// Get retrieves an event by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return event.Event{}, &apperrors.NotFoundError{Kind: "event", ID: id}
	}
	return ev, nil
}

// Put inserts or replaces an event.
func (s *MemoryStore) Put(ctx context.Context, ev event.Event) error {
	err := s.put(ctx, ev)
	observability.Store().OnMutation(ctx, BackendMemory, "put", err)
	return err
}

func (s *MemoryStore) put(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkEvent(ev); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.ID] = ev
	return nil
}

// Delete removes an event. Absent IDs are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	observability.Store().OnMutation(ctx, BackendMemory, "delete", err)
	return err
}

func (s *MemoryStore) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, id)
	return nil
}

// List returns every event sorted by start time, then ID.
func (s *MemoryStore) List(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]event.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	s.mu.RUnlock()

	sortEvents(out)
	observability.Store().OnLoad(ctx, BackendMemory, len(out), nil)
	return out, nil
}

// Window returns the events overlapping [from, to).
func (s *MemoryStore) Window(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]event.Event, 0, len(s.events))
	for _, ev := range s.events {
		if inWindow(ev, from, to) {
			out = append(out, ev)
		}
	}
	s.mu.RUnlock()

	sortEvents(out)
	observability.Store().OnLoad(ctx, BackendMemory, len(out), nil)
	return out, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)
