package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the handle every persistence operation receives. It is built
// once at startup and shared by reference; the underlying driver client
// pools connections and is safe for concurrent use.
type Store interface {
	Collection(name string) Collection
}

// Collection is the slice of the driver surface the persistence layer
// depends on. Keeping it narrow lets tests substitute a mock.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter, replacement interface{}) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	FindOne(ctx context.Context, filter interface{}) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) (*mongo.Cursor, error)
	CreateUniqueIndex(ctx context.Context, field string) (string, error)
}

// Connect creates the MongoDB client and verifies the connection with a
// ping before returning. Failure here is fatal: nothing works without
// the store.
func Connect(uri string) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("failed to create MongoDB client: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("failed to connect to MongoDB (ping failed): %v", err)
	}

	return client
}

type mongoStore struct {
	db *mongo.Database
}

// NewStore wraps a driver database in the Store contract.
func NewStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document)
}

func (c *mongoCollection) ReplaceOne(ctx context.Context, filter, replacement interface{}) (*mongo.UpdateResult, error) {
	return c.coll.ReplaceOne(ctx, filter, replacement)
}

func (c *mongoCollection) UpdateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	return c.coll.UpdateMany(ctx, filter, update)
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter)
}

func (c *mongoCollection) FindOne(ctx context.Context, filter interface{}) *mongo.SingleResult {
	return c.coll.FindOne(ctx, filter)
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline interface{}) (*mongo.Cursor, error) {
	return c.coll.Aggregate(ctx, pipeline)
}

func (c *mongoCollection) CreateUniqueIndex(ctx context.Context, field string) (string, error) {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	return c.coll.Indexes().CreateOne(ctx, model)
}
