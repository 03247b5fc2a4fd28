// Package mongo provides a MongoDB-backed diagram store for production
// deployments where diagrams must survive restarts and be shared across
// instances.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/store"
)

// Config contains MongoDB connection settings.
type Config struct {
	// URI is the MongoDB connection string (mongodb://...).
	URI string

	// Database is the database name. Defaults to "cloudplot".
	Database string

	// Collection is the collection name. Defaults to "diagrams".
	Collection string
}

func (c Config) withDefaults() Config {
	if c.Database == "" {
		c.Database = "cloudplot"
	}
	if c.Collection == "" {
		c.Collection = "diagrams"
	}
	return c
}

// Store is a MongoDB-backed diagram store.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to ping mongodb")
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Create implements store.Store.
func (s *Store) Create(ctx context.Context, d *store.Diagram) error {
	if _, err := s.collection.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeInvalidOptions, "diagram already exists: %s", d.ID)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to insert diagram")
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) (*store.Diagram, error) {
	var d store.Diagram
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to fetch diagram")
	}
	return &d, nil
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, d *store.Diagram) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{
		"$set": bson.M{
			"name":       d.Name,
			"model":      d.Model,
			"updated_at": d.UpdatedAt,
		},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to update diagram")
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", d.ID)
	}
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to delete diagram")
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", id)
	}
	return nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context) ([]*store.Diagram, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to list diagrams")
	}
	defer cur.Close(ctx)

	var out []*store.Diagram
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode diagrams")
	}
	return out, nil
}

// Close implements store.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
