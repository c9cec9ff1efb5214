package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// Tag names are globally unique (unique index, see EnsureIndexes). The
// id+name pair is embedded verbatim in the tags array of products.
type Tag struct {
	ID   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name" binding:"required"`
}

func (Tag) CollectionName() string {
	return "tags"
}

func (t Tag) ObjectID() (primitive.ObjectID, bool) {
	return t.ID, !t.ID.IsZero()
}

// WithID returns a copy of the tag carrying the given identifier.
func (t Tag) WithID(id primitive.ObjectID) Tag {
	t.ID = id
	return t
}

// SyncProducts rewrites the matching element of every product's tags
// array in place, leaving order and the other elements untouched. Uses
// an update pipeline ($map + $cond) keyed on the tag id.
func (t Tag) SyncProducts(ctx context.Context, store database.Store) (string, error) {
	if _, ok := t.ObjectID(); !ok {
		return "no id, skipping tag product sync", nil
	}

	tagDoc := bson.D{{Key: "_id", Value: t.ID}, {Key: "name", Value: t.Name}}
	filter := bson.M{"tags._id": t.ID}
	pipeline := bson.A{bson.M{
		"$set": bson.M{
			"tags": bson.M{
				"$map": bson.M{
					"input": "$tags",
					"as":    "t",
					"in": bson.M{
						"$cond": bson.A{
							bson.M{"$eq": bson.A{"$$t._id", t.ID}},
							tagDoc,
							"$$t",
						},
					},
				},
			},
		},
	}}

	res, err := store.Collection(Product{}.CollectionName()).UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("updated %d products for tag %s", res.ModifiedCount, t.Name), nil
}
