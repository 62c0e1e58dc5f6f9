package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// =============================================================================
// MongoStore - MongoDB Backend
// =============================================================================

const (
	mongoDatabase   = "timegrid"
	mongoCollection = "events"
)

// MongoStore keeps events in a MongoDB collection, one document per event
// with the event ID as _id. Window queries run server-side against the
// start/end fields.
type MongoStore struct {
	client *mongo.Client
	events *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment named by dsn
// (e.g. "mongodb://localhost:27017") and verifies the connection.
func NewMongoStore(ctx context.Context, dsn string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse mongo DSN")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "connect to mongo")
	}
	return &MongoStore{
		client: client,
		events: client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Get retrieves an event by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (event.Event, error) {
	var ev event.Event
	err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return event.Event{}, &apperrors.NotFoundError{Kind: "event", ID: id}
		}
		return event.Event{}, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "get event %s", id)
	}
	return ev, nil
}

// Put inserts or replaces an event.
func (s *MongoStore) Put(ctx context.Context, ev event.Event) error {
	err := s.put(ctx, ev)
	observability.Store().OnMutation(ctx, BackendMongo, "put", err)
	return err
}

func (s *MongoStore) put(ctx context.Context, ev event.Event) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	_, err := s.events.ReplaceOne(ctx, bson.M{"_id": ev.ID}, ev, options.Replace().SetUpsert(true))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "put event %s", ev.ID)
	}
	return nil
}

// Delete removes an event. Absent IDs are ignored.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	observability.Store().OnMutation(ctx, BackendMongo, "delete", err)
	return err
}

func (s *MongoStore) delete(ctx context.Context, id string) error {
	if _, err := s.events.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "delete event %s", id)
	}
	return nil
}

// List returns every event sorted by start time, then ID.
func (s *MongoStore) List(ctx context.Context) ([]event.Event, error) {
	out, err := s.find(ctx, bson.M{})
	observability.Store().OnLoad(ctx, BackendMongo, len(out), err)
	return out, err
}

// Window returns the events overlapping [from, to).
func (s *MongoStore) Window(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	filter := bson.M{
		"start": bson.M{"$lt": to},
		"end":   bson.M{"$gt": from},
	}
	out, err := s.find(ctx, filter)
	observability.Store().OnLoad(ctx, BackendMongo, len(out), err)
	return out, err
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]event.Event, error) {
	sort := options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.events.Find(ctx, filter, sort)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "query events")
	}
	out := []event.Event{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "decode events")
	}
	return out, nil
}

// Close releases the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Compile-time interface check.
var _ Store = (*MongoStore)(nil)
