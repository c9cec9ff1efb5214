package models_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/mock/gomock"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database/mocks"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
)

// Brand sync keys off the brand's current name: products holding a
// previous name are not matched. That behavior is deliberate and
// pinned here.
func TestBrandSyncMatchesCurrentNameOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	products := mocks.NewMockCollection(ctrl)

	b := models.Brand{ID: primitive.NewObjectID(), Name: "Nordica"}

	store.EXPECT().Collection("products").Return(products)
	products.EXPECT().UpdateMany(gomock.Any(), bson.M{"brand": "Nordica"}, bson.M{"$set": bson.M{"brand": "Nordica"}}).
		Return(&mongo.UpdateResult{MatchedCount: 2, ModifiedCount: 0}, nil)

	msg, err := b.SyncProducts(context.Background(), store)
	if err != nil {
		t.Fatalf("SyncProducts: %v", err)
	}
	if msg != "updated 0 products for brand Nordica" {
		t.Errorf("message = %q", msg)
	}
}
