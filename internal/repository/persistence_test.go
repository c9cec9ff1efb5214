package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/mock/gomock"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database/mocks"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
	"github.com/SrClauss/balanco-silvanateodoro/internal/repository"
)

func TestCreateStripsIDAndReturnsAssignedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	coll := mocks.NewMockCollection(ctrl)

	assigned := primitive.NewObjectID()
	store.EXPECT().Collection("suppliers").Return(coll)
	coll.EXPECT().InsertOne(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, document interface{}) (*mongo.InsertOneResult, error) {
			doc, ok := document.(bson.M)
			if !ok {
				t.Fatalf("expected bson.M document, got %T", document)
			}
			if _, present := doc["_id"]; present {
				t.Error("create must strip the _id field before insert")
			}
			if doc["trade_name"] != "Acme" {
				t.Errorf("trade_name = %v, want Acme", doc["trade_name"])
			}
			return &mongo.InsertOneResult{InsertedID: assigned}, nil
		})

	// even a pre-set id must not survive into the insert
	s := models.Supplier{ID: primitive.NewObjectID(), TradeName: "Acme", Active: true}

	id, err := repository.Create(context.Background(), store, s)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != assigned {
		t.Errorf("returned id = %s, want %s", id.Hex(), assigned.Hex())
	}
}

func TestUpdateWithoutIDIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	_, err := repository.Update(context.Background(), store, models.Supplier{TradeName: "Acme"})
	if !errors.Is(err, repository.ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

func TestUpdateReplacesThenSyncsProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	suppliers := mocks.NewMockCollection(ctrl)
	products := mocks.NewMockCollection(ctrl)

	id := primitive.NewObjectID()
	s := models.Supplier{ID: id, TradeName: "Acme Corp", Active: true}

	store.EXPECT().Collection("suppliers").Return(suppliers)
	store.EXPECT().Collection("products").Return(products)

	suppliers.EXPECT().ReplaceOne(gomock.Any(), bson.M{"_id": id}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, replacement interface{}) (*mongo.UpdateResult, error) {
			doc := replacement.(bson.M)
			if doc["_id"] != id {
				t.Errorf("replacement _id = %v, want %s", doc["_id"], id.Hex())
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		})
	products.EXPECT().UpdateMany(gomock.Any(), bson.M{"supplier._id": id}, gomock.Any()).
		Return(&mongo.UpdateResult{MatchedCount: 2, ModifiedCount: 2}, nil)

	msg, err := repository.Update(context.Background(), store, s)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := "entity saved and updated 2 products for supplier Acme Corp"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}

func TestUpdateZeroMatchedIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	suppliers := mocks.NewMockCollection(ctrl)

	s := models.Supplier{ID: primitive.NewObjectID(), TradeName: "Ghost"}

	store.EXPECT().Collection("suppliers").Return(suppliers)
	suppliers.EXPECT().ReplaceOne(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	_, err := repository.Update(context.Background(), store, s)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSurfacesSyncFailureAfterSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	suppliers := mocks.NewMockCollection(ctrl)
	products := mocks.NewMockCollection(ctrl)

	s := models.Supplier{ID: primitive.NewObjectID(), TradeName: "Acme"}

	store.EXPECT().Collection("suppliers").Return(suppliers)
	store.EXPECT().Collection("products").Return(products)
	suppliers.EXPECT().ReplaceOne(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	products.EXPECT().UpdateMany(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("socket closed"))

	_, err := repository.Update(context.Background(), store, s)
	if err == nil {
		t.Fatal("expected error when sync fails")
	}
	if !strings.Contains(err.Error(), "product sync failed") {
		t.Errorf("error %q should report that the save succeeded but the sync failed", err)
	}
}

func TestDeleteWithoutIDIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	_, err := repository.Delete(context.Background(), store, models.Tag{Name: "promo"})
	if !errors.Is(err, repository.ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

// Delete issues exactly one DeleteOne and nothing else: embedded
// copies in products are left stale on purpose. The mock controller
// fails the test on any extra store call.
func TestDeleteRemovesSingleDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	tags := mocks.NewMockCollection(ctrl)

	id := primitive.NewObjectID()
	store.EXPECT().Collection("tags").Return(tags)
	tags.EXPECT().DeleteOne(gomock.Any(), bson.M{"_id": id}).
		Return(&mongo.DeleteResult{DeletedCount: 1}, nil)

	n, err := repository.Delete(context.Background(), store, models.Tag{ID: id, Name: "promo"})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
}

func TestGetByIDRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	suppliers := mocks.NewMockCollection(ctrl)

	id := primitive.NewObjectID()
	stored := models.Supplier{ID: id, TradeName: "Acme", Email: "sales@acme.test", Active: true}

	store.EXPECT().Collection("suppliers").Return(suppliers)
	suppliers.EXPECT().FindOne(gomock.Any(), bson.M{"_id": id}).
		Return(mongo.NewSingleResultFromDocument(stored, nil, nil))

	got, err := repository.GetByID[models.Supplier](context.Background(), store, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for an existing document")
	}
	if got.TradeName != stored.TradeName || got.Email != stored.Email || got.ID != id {
		t.Errorf("got %+v, want %+v", got, stored)
	}
}

func TestGetByIDAbsentIsNilNotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	suppliers := mocks.NewMockCollection(ctrl)

	store.EXPECT().Collection("suppliers").Return(suppliers)
	suppliers.EXPECT().FindOne(gomock.Any(), gomock.Any()).
		Return(mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil))

	got, err := repository.GetByID[models.Supplier](context.Background(), store, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestListPaginatedWindowAndTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	tags := mocks.NewMockCollection(ctrl)

	stored := []interface{}{
		models.Tag{ID: primitive.NewObjectID(), Name: "summer"},
		models.Tag{ID: primitive.NewObjectID(), Name: "promo"},
	}

	store.EXPECT().Collection("tags").Return(tags)
	tags.EXPECT().Aggregate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pipeline interface{}) (*mongo.Cursor, error) {
			stages := pipeline.(mongo.Pipeline)
			if len(stages) != 2 {
				t.Fatalf("pipeline has %d stages, want 2", len(stages))
			}
			if stages[0][0].Key != "$skip" || stages[0][0].Value.(int64) != 4 {
				t.Errorf("skip stage = %+v, want $skip 4", stages[0][0])
			}
			if stages[1][0].Key != "$limit" || stages[1][0].Value.(int64) != 2 {
				t.Errorf("limit stage = %+v, want $limit 2", stages[1][0])
			}
			return mongo.NewCursorFromDocuments(stored, nil, nil)
		})
	tags.EXPECT().CountDocuments(gomock.Any(), bson.D{}).Return(int64(7), nil)

	items, total, err := repository.ListPaginated[models.Tag](context.Background(), store, 3, 2)
	if err != nil {
		t.Fatalf("ListPaginated: %v", err)
	}
	if len(items) != 2 || total != 7 {
		t.Fatalf("got %d items, total %d; want 2 items, total 7", len(items), total)
	}
	if items[0].Name != "summer" || items[1].Name != "promo" {
		t.Errorf("items out of order: %+v", items)
	}
}

func TestFilterByAttributeCountsFilteredSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	products := mocks.NewMockCollection(ctrl)

	supplierID := primitive.NewObjectID()
	wantFilter := bson.D{{Key: "supplier._id", Value: supplierID}}

	store.EXPECT().Collection("products").Return(products)
	products.EXPECT().Aggregate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pipeline interface{}) (*mongo.Cursor, error) {
			stages := pipeline.(mongo.Pipeline)
			if stages[0][0].Key != "$match" {
				t.Errorf("first stage = %+v, want $match", stages[0][0])
			}
			return mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
		})
	products.EXPECT().CountDocuments(gomock.Any(), wantFilter).Return(int64(3), nil)

	items, total, err := repository.FilterByAttribute[models.Product](context.Background(), store, "supplier._id", supplierID, 1, 20)
	if err != nil {
		t.Fatalf("FilterByAttribute: %v", err)
	}
	if len(items) != 0 || total != 3 {
		t.Errorf("got %d items, total %d; want 0 items, total 3", len(items), total)
	}
}
