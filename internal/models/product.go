package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// ErrDuplicateCode is returned by EnsureUniqueCode when another product
// already holds the internal code being saved.
var ErrDuplicateCode = errors.New("internal code already in use")

// Product embeds denormalized snapshots of its supplier and tags; the
// brand is a plain name string. Products have no dependents of their
// own.
type Product struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InternalCode string             `json:"internal_code" bson:"internal_code" binding:"required"`
	Description  string             `json:"description" bson:"description"`
	Size         string             `json:"size" bson:"size"`
	Supplier     Supplier           `json:"supplier" bson:"supplier"`
	Brand        string             `json:"brand" bson:"brand"`
	CostPrice    float64            `json:"cost_price" bson:"cost_price"`
	SalePrice    float64            `json:"sale_price" bson:"sale_price"`
	Photos       []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	StockItems   []StockItem        `json:"stock_items" bson:"stock_items"`
	AutoUpdate   bool               `json:"auto_update" bson:"auto_update"`
	Tags         []Tag              `json:"tags" bson:"tags"`
}

// StockItem is one acquisition batch inside a product.
type StockItem struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"id,omitempty"`
	AcquisitionDate string             `json:"acquisition_date" bson:"acquisition_date"`
	Quantity        int32              `json:"quantity" bson:"quantity"`
}

// UnmarshalJSON applies the auto_update default (true) when the field
// is absent from the payload.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := alias{AutoUpdate: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux)
	return nil
}

func (Product) CollectionName() string {
	return "products"
}

func (p Product) ObjectID() (primitive.ObjectID, bool) {
	return p.ID, !p.ID.IsZero()
}

// WithID returns a copy of the product carrying the given identifier.
func (p Product) WithID(id primitive.ObjectID) Product {
	p.ID = id
	return p
}

// SyncProducts is the no-dependents default.
func (Product) SyncProducts(ctx context.Context, store database.Store) (string, error) {
	return "no related products", nil
}

// EnsureUniqueCode fails with ErrDuplicateCode when any other document
// holds the same internal code. On update the document being saved is
// excluded from the check. The unique index remains the backstop for
// the race window between this check and the write.
func (p Product) EnsureUniqueCode(ctx context.Context, store database.Store) error {
	filter := bson.M{"internal_code": p.InternalCode}
	if id, ok := p.ObjectID(); ok {
		filter["_id"] = bson.M{"$ne": id}
	}

	res := store.Collection(p.CollectionName()).FindOne(ctx, filter)
	switch err := res.Err(); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateCode, p.InternalCode)
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil
	default:
		return fmt.Errorf("check internal code: %w", err)
	}
}

// NextInternalCode derives the next numeric internal code: the highest
// purely-numeric code plus one, or "1" when none exist. The value is
// not reserved; concurrent callers can race, and the uniqueness check
// and index catch the loser.
func NextInternalCode(ctx context.Context, store database.Store) (string, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"internal_code": bson.M{"$regex": "^[0-9]+$"}}}},
		bson.D{{Key: "$project", Value: bson.M{"value": bson.M{"$toLong": "$internal_code"}}}},
		bson.D{{Key: "$sort", Value: bson.M{"value": -1}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cursor, err := store.Collection(Product{}.CollectionName()).Aggregate(ctx, pipeline)
	if err != nil {
		return "", fmt.Errorf("next internal code: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value int64 `bson:"value"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return "", fmt.Errorf("next internal code: %w", err)
	}
	if len(rows) == 0 {
		return "1", nil
	}
	return strconv.FormatInt(rows[0].Value+1, 10), nil
}
