package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// Supplier is the canonical supplier record. A full copy of it is
// embedded inside every product that references it; those copies are
// point-in-time snapshots kept in sync only by SyncProducts.
type Supplier struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TradeName   string             `json:"trade_name" bson:"trade_name" binding:"required"`
	LegalName   string             `json:"legal_name,omitempty" bson:"legal_name,omitempty"`
	TaxID       string             `json:"tax_id,omitempty" bson:"tax_id,omitempty"`
	ContactName string             `json:"contact_name,omitempty" bson:"contact_name,omitempty"`
	Address     *Address           `json:"address,omitempty" bson:"address,omitempty"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   string             `json:"created_at" bson:"created_at"`
	UpdatedAt   string             `json:"updated_at" bson:"updated_at"`
}

func (Supplier) CollectionName() string {
	return "suppliers"
}

func (s Supplier) ObjectID() (primitive.ObjectID, bool) {
	return s.ID, !s.ID.IsZero()
}

// WithID returns a copy of the supplier carrying the given identifier.
func (s Supplier) WithID(id primitive.ObjectID) Supplier {
	s.ID = id
	return s
}

// SyncProducts replaces the embedded supplier object in every product
// whose embedded copy carries this supplier's id.
func (s Supplier) SyncProducts(ctx context.Context, store database.Store) (string, error) {
	filter := bson.M{"supplier._id": s.ID}
	update := bson.M{"$set": bson.M{"supplier": s}}

	res, err := store.Collection(Product{}.CollectionName()).UpdateMany(ctx, filter, update)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("updated %d products for supplier %s", res.ModifiedCount, s.TradeName), nil
}
