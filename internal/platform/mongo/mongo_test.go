package mongo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medveritas/medveritas-api/internal/store"
)

// fakeCollection keeps documents in a map keyed by _id.
type fakeCollection struct {
	docs     map[string][]byte
	findErr  error
	writeErr error
	upserts  []bool
}

func (f *fakeCollection) FindOne(
	_ context.Context,
	filter interface{},
	_ ...*options.FindOneOptions,
) *mongo.SingleResult {
	if f.findErr != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.findErr, nil)
	}
	id := filter.(bson.M)["_id"].(string)
	value, ok := f.docs[id]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "_id", Value: id}, {Key: "value", Value: value}}, nil, nil)
}

func (f *fakeCollection) UpdateOne(
	_ context.Context,
	filter interface{},
	update interface{},
	opts ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for _, o := range opts {
		f.upserts = append(f.upserts, o.Upsert != nil && *o.Upsert)
	}
	id := filter.(bson.M)["_id"].(string)
	set := update.(bson.M)["$set"].(bson.M)
	f.docs[id] = set["value"].([]byte)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func newFakeStore(coll *fakeCollection) *MongoRecordStore {
	return newRecordStore(coll, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMongoRecordStore_RoundTrip(t *testing.T) {
	coll := &fakeCollection{docs: map[string][]byte{}}
	s := newFakeStore(coll)
	ctx := context.Background()

	_, err := s.Get(ctx, "med_reminders")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, s.Put(ctx, "med_reminders", []byte(`[{"id":"x"}]`)))
	assert.Equal(t, []bool{true}, coll.upserts)

	got, err := s.Get(ctx, "med_reminders")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(got))
}

func TestMongoRecordStore_Failures(t *testing.T) {
	ctx := context.Background()

	s := newFakeStore(&fakeCollection{docs: map[string][]byte{}, findErr: errors.New("server selection timeout")})
	_, err := s.Get(ctx, "med_reminders")
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	s = newFakeStore(&fakeCollection{docs: map[string][]byte{}, writeErr: errors.New("not primary")})
	err = s.Put(ctx, "med_reminders", []byte(`[]`))
	assert.ErrorIs(t, err, store.ErrStorageFailure)
	assert.Contains(t, err.Error(), "not primary")

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, store.ErrInvalidRecordName)
}

func TestNewMongoRecordStore_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewMongoRecordStore(nil, nil) })
}
