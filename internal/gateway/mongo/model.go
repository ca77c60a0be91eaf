// Package mongo implements the model gateway on a MongoDB collection.
package mongo

import (
	"context"
	"fmt"

	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds the connection settings.
type Config struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// DefaultConfig returns the default connection settings.
func DefaultConfig() Config {
	return Config{
		URI:      "mongodb://localhost:27017",
		Database: "docsync",
	}
}

// Model is an indexsync.ModelGateway storing one document per record in a collection.
type Model struct {
	coll *mongo.Collection
}

// NewModel binds a Model to coll.
func NewModel(coll *mongo.Collection) *Model {
	return &Model{coll: coll}
}

// Connect dials MongoDB, verifies the connection and returns the model for
// cfg.Collection together with a function releasing the connection.
func Connect(ctx context.Context, cfg Config) (*Model, func(context.Context) error, error) {
	if cfg.Collection == "" {
		return nil, nil, fmt.Errorf("mongo collection must be set: %w", model.ErrConfig)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return NewModel(coll), client.Disconnect, nil
}

// Create inserts doc with _id set to the formatted id. An existing document
// with the same id is replaced.
func (m *Model) Create(ctx context.Context, id model.Identity, doc model.Document) error {
	record, err := toBSON(id, doc)
	if err != nil {
		return err
	}

	_, err = m.coll.InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		_, err = m.coll.ReplaceOne(ctx, bson.M{model.IDField: record[model.IDField]}, record)
	}
	return wrap("create", err)
}

// UpdateWhere sets the fields of doc on every matching document.
func (m *Model) UpdateWhere(ctx context.Context, filters model.Filters, doc model.Document) (int64, error) {
	filter, err := makeFilterBSON(filters)
	if err != nil {
		return 0, err
	}

	set := bson.M{}
	for k, v := range doc {
		if k == model.IDField {
			continue
		}
		set[k] = v
	}

	if len(set) == 0 {
		// $set rejects an empty document; report whether anything matched.
		n, err := m.coll.CountDocuments(ctx, filter)
		return n, wrap("update", err)
	}

	result, err := m.coll.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, wrap("update", err)
	}
	return result.MatchedCount, nil
}

// DeleteWhere removes every matching document.
func (m *Model) DeleteWhere(ctx context.Context, filters model.Filters) (int64, error) {
	filter, err := makeFilterBSON(filters)
	if err != nil {
		return 0, err
	}

	result, err := m.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, wrap("delete", err)
	}
	return result.DeletedCount, nil
}

// toBSON copies doc and sets _id. Identities are stored in their formatted
// string form: a composite key encoded as a BSON map would have no stable field
// order, and Mongo compares embedded documents field by field.
func toBSON(id model.Identity, doc model.Document) (bson.M, error) {
	key, err := formatID(id)
	if err != nil {
		return nil, err
	}
	record := make(bson.M, len(doc)+1)
	for k, v := range doc {
		record[k] = v
	}
	record[model.IDField] = key
	return record, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if model.IsCanceled(err) {
		return fmt.Errorf("mongo %s: %w", op, model.ErrCanceled)
	}
	return fmt.Errorf("mongo %s: %v: %w", op, err, model.ErrGateway)
}

var _ indexsync.ModelGateway = (*Model)(nil)
