// Package repository implements the persistence protocol shared by all
// entity types: CRUD, pagination and attribute filtering over a
// document store, plus the post-update fan-out that keeps embedded
// copies in dependent products in sync.
//
// Entity writes and the fan-out are separate round-trips with no
// transaction spanning them. The model is best-effort: a failure after
// the primary write leaves the canonical document correct and some
// embedded copies stale, which callers must treat as reportable, not as
// a rollback trigger.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// Entity is the capability set a type must provide to opt into the
// persistence protocol. Methods use value receivers so the generic
// operations can work from a zero value.
type Entity interface {
	// CollectionName is the storage namespace for the entity type.
	CollectionName() string
	// ObjectID returns the entity's identifier and whether it has one.
	// Entities are created without an id; the store assigns it on the
	// first insert.
	ObjectID() (primitive.ObjectID, bool)
	// SyncProducts pushes the entity's current state into every
	// embedded copy held by dependent products and reports a summary.
	// Types with no dependents report "no related products".
	SyncProducts(ctx context.Context, store database.Store) (string, error)
}

// Create serializes the entity, strips any identifier and inserts it as
// a new document. The id assigned by the store is returned.
func Create(ctx context.Context, store database.Store, e Entity) (primitive.ObjectID, error) {
	doc, err := toDocument(e)
	if err != nil {
		return primitive.NilObjectID, err
	}
	delete(doc, "_id")

	res, err := store.Collection(e.CollectionName()).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", e.CollectionName(), err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Update replaces the stored document keyed by the entity's id, then
// unconditionally runs SyncProducts and folds its summary into the
// returned message. ErrMissingID when the entity was never created;
// ErrNotFound when the replace matched nothing. A sync failure is
// returned as an error even though the primary write already succeeded.
func Update(ctx context.Context, store database.Store, e Entity) (string, error) {
	id, ok := e.ObjectID()
	if !ok {
		return "", ErrMissingID
	}

	doc, err := toDocument(e)
	if err != nil {
		return "", err
	}
	doc["_id"] = id

	res, err := store.Collection(e.CollectionName()).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return "", fmt.Errorf("replace in %s: %w", e.CollectionName(), err)
	}
	if res.MatchedCount == 0 {
		return "", fmt.Errorf("replace in %s matched no document: %w", e.CollectionName(), ErrNotFound)
	}

	msg, err := e.SyncProducts(ctx, store)
	if err != nil {
		return "", fmt.Errorf("entity saved but product sync failed: %w", err)
	}
	return fmt.Sprintf("entity saved and %s", msg), nil
}

// Delete removes the single document matching the entity's id. It does
// not clean up embedded copies in dependent products; those go stale.
func Delete(ctx context.Context, store database.Store, e Entity) (int64, error) {
	id, ok := e.ObjectID()
	if !ok {
		return 0, ErrMissingID
	}

	res, err := store.Collection(e.CollectionName()).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", e.CollectionName(), err)
	}
	return res.DeletedCount, nil
}

// GetByID looks up a single entity. A missing document is (nil, nil),
// not an error.
func GetByID[T Entity](ctx context.Context, store database.Store, id primitive.ObjectID) (*T, error) {
	var zero T
	var out T
	err := store.Collection(zero.CollectionName()).FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find in %s: %w", zero.CollectionName(), err)
	}
	return &out, nil
}

// ListPaginated returns one page of the collection in storage-natural
// order plus the total count of all documents. Pages are 1-indexed.
func ListPaginated[T Entity](ctx context.Context, store database.Store, page, perPage int64) ([]T, int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$skip", Value: skipFor(page, perPage)}},
		bson.D{{Key: "$limit", Value: perPage}},
	}
	return runPage[T](ctx, store, pipeline, bson.D{})
}

// FilterByAttribute applies an equality (or operator-shaped) filter on
// a single dotted attribute path with the same pagination scheme. The
// path is caller-supplied and unchecked: nested paths such as
// "supplier._id" or "tags._id" are the intended use. The total counts
// the filtered set, not the whole collection.
func FilterByAttribute[T Entity](ctx context.Context, store database.Store, attribute string, value interface{}, page, perPage int64) ([]T, int64, error) {
	filter := bson.D{{Key: attribute, Value: value}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$skip", Value: skipFor(page, perPage)}},
		bson.D{{Key: "$limit", Value: perPage}},
	}
	return runPage[T](ctx, store, pipeline, filter)
}

func runPage[T Entity](ctx context.Context, store database.Store, pipeline mongo.Pipeline, countFilter bson.D) ([]T, int64, error) {
	var zero T
	coll := store.Collection(zero.CollectionName())

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate on %s: %w", zero.CollectionName(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode from %s: %w", zero.CollectionName(), err)
	}

	total, err := coll.CountDocuments(ctx, countFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("count on %s: %w", zero.CollectionName(), err)
	}
	return items, total, nil
}

func skipFor(page, perPage int64) int64 {
	if page <= 1 {
		return 0
	}
	return (page - 1) * perPage
}

// toDocument round-trips the entity through BSON into a mutable map so
// the generic operations can manage the _id field themselves.
func toDocument(e Entity) (bson.M, error) {
	raw, err := bson.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return doc, nil
}
