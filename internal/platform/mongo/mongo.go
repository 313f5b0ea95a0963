// Package mongo provides the MongoDB implementation of store.RecordStore.
// Each record is one document in the records collection, keyed by name.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/store"
)

// CollectionName is the collection holding record documents.
const CollectionName = "kv_records"

// Connect opens a client for uri, verifies it with a ping and returns the
// named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(database), nil
}

// collection is the subset of *mongo.Collection used by the record store.
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(
		ctx context.Context,
		filter interface{},
		update interface{},
		opts ...*options.UpdateOptions,
	) (*mongo.UpdateResult, error)
}

// recordDocument is the stored shape of one record.
type recordDocument struct {
	Name      string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoRecordStore implements store.RecordStore on a MongoDB collection.
type MongoRecordStore struct {
	coll   collection
	logger *slog.Logger
	now    func() time.Time
}

var _ store.RecordStore = (*MongoRecordStore)(nil)

// NewMongoRecordStore creates a record store backed by the records collection of db.
func NewMongoRecordStore(db *mongo.Database, logger *slog.Logger) *MongoRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return newRecordStore(db.Collection(CollectionName), logger)
}

func newRecordStore(coll collection, logger *slog.Logger) *MongoRecordStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoRecordStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "record_store"), slog.String("backend", "mongo")),
		now:    time.Now,
	}
}

// Get implements store.RecordStore.Get.
func (s *MongoRecordStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := store.ValidateRecordName(name); err != nil {
		return nil, err
	}

	var doc recordDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read record",
			slog.String("record", name), slog.String("error", err.Error()))
		return nil, store.StorageFailure("get", name, err)
	}
	return doc.Value, nil
}

// Put implements store.RecordStore.Put as an upsert of the whole document.
func (s *MongoRecordStore) Put(ctx context.Context, name string, value []byte) error {
	if err := store.ValidateRecordName(name); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	update := bson.M{"$set": bson.M{"value": value, "updated_at": s.now().UTC()}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write record",
			slog.String("record", name), slog.String("error", err.Error()))
		return store.StorageFailure("put", name, err)
	}
	return nil
}
