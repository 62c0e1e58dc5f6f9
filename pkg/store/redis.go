package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// =============================================================================
// RedisStore - Redis Backend
// =============================================================================

// Redis key layout.
const (
	redisEventPrefix = "timegrid:event:" // one JSON value per event
	redisIndexKey    = "timegrid:events" // set of known event IDs
)

// RedisStore keeps events in Redis, one JSON value per event plus a set
// of known IDs for listing. Suited to shared deployments where several
// clients edit the same calendar.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance named by dsn
// (e.g. "redis://localhost:6379/0") and verifies the connection.
func NewRedisStore(ctx context.Context, dsn string) (*RedisStore, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse redis DSN")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "connect to redis")
	}
	return &RedisStore{client: client}, nil
}

func redisKey(id string) string { return redisEventPrefix + id }

// Get retrieves an event by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (event.Event, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return event.Event{}, &apperrors.NotFoundError{Kind: "event", ID: id}
		}
		return event.Event{}, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "get event %s", id)
	}
	var ev event.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return event.Event{}, fmt.Errorf("parse event %s: %w", id, err)
	}
	return ev, nil
}

// Put inserts or replaces an event.
func (s *RedisStore) Put(ctx context.Context, ev event.Event) error {
	err := s.put(ctx, ev)
	observability.Store().OnMutation(ctx, BackendRedis, "put", err)
	return err
}

func (s *RedisStore) put(ctx context.Context, ev event.Event) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// Value and index entry move together.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKey(ev.ID), data, 0)
	pipe.SAdd(ctx, redisIndexKey, ev.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "put event %s", ev.ID)
	}
	return nil
}

// Delete removes an event. Absent IDs are ignored.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	observability.Store().OnMutation(ctx, BackendRedis, "delete", err)
	return err
}

func (s *RedisStore) delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisKey(id))
	pipe.SRem(ctx, redisIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "delete event %s", id)
	}
	return nil
}

// List returns every event sorted by start time, then ID.
func (s *RedisStore) List(ctx context.Context) ([]event.Event, error) {
	out, err := s.load(ctx)
	observability.Store().OnLoad(ctx, BackendRedis, len(out), err)
	return out, err
}

// Window returns the events overlapping [from, to).
func (s *RedisStore) Window(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	all, err := s.load(ctx)
	if err != nil {
		observability.Store().OnLoad(ctx, BackendRedis, 0, err)
		return nil, err
	}
	out := all[:0]
	for _, ev := range all {
		if inWindow(ev, from, to) {
			out = append(out, ev)
		}
	}
	observability.Store().OnLoad(ctx, BackendRedis, len(out), nil)
	return out, nil
}

func (s *RedisStore) load(ctx context.Context) ([]event.Event, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "list events")
	}
	if len(ids) == 0 {
		return []event.Event{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load events")
	}

	out := make([]event.Event, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // index entry without a value; skip
		}
		var ev event.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("parse event %s: %w", ids[i], err)
		}
		out = append(out, ev)
	}
	sortEvents(out)
	return out, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)
