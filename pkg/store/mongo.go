package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
)

const (
	defaultDatabase   = "tracil"
	defaultCollection = "snapshots"
	connectTimeout    = 10 * time.Second
)

// MongoStore persists snapshots in a single MongoDB collection, keyed by
// snapshot id.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies connectivity with a ping.
// An empty database name selects "tracil".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "failed to reach mongodb at startup")
	}

	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(defaultCollection),
	}, nil
}

// Save upserts a snapshot by id.
func (m *MongoStore) Save(ctx context.Context, s Snapshot) error {
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to save snapshot %s", s.ID)
	}
	return nil
}

// Get retrieves a snapshot by id.
func (m *MongoStore) Get(ctx context.Context, id string) (Snapshot, error) {
	var s Snapshot
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, NotFound(id)
	}
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to load snapshot %s", id)
	}
	return s, nil
}

// List returns snapshots newest first.
func (m *MongoStore) List(ctx context.Context, limit int) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to list snapshots")
	}
	defer cur.Close(ctx)

	var out []Snapshot
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode snapshots")
	}
	return out, nil
}

// Delete removes a snapshot.
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to delete snapshot %s", id)
	}
	if res.DeletedCount == 0 {
		return NotFound(id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
