package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// Brand is referenced from products as a plain name string, not as an
// embedded object.
type Brand struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" binding:"required"`
	CreatedAt string             `json:"created_at" bson:"created_at"`
	UpdatedAt string             `json:"updated_at" bson:"updated_at"`
}

func (Brand) CollectionName() string {
	return "brands"
}

func (b Brand) ObjectID() (primitive.ObjectID, bool) {
	return b.ID, !b.ID.IsZero()
}

// WithID returns a copy of the brand carrying the given identifier.
func (b Brand) WithID(id primitive.ObjectID) Brand {
	b.ID = id
	return b
}

// SyncProducts re-sets the brand name on every product currently
// holding it. Known limitation: the match keys off the brand's current
// name, so products still carrying a previous name are never reached.
func (b Brand) SyncProducts(ctx context.Context, store database.Store) (string, error) {
	filter := bson.M{"brand": b.Name}
	update := bson.M{"$set": bson.M{"brand": b.Name}}

	res, err := store.Collection(Product{}.CollectionName()).UpdateMany(ctx, filter, update)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("updated %d products for brand %s", res.ModifiedCount, b.Name), nil
}
