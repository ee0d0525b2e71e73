package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"commercelib/models"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		wantErr bool
	}{
		{"valid", models.Product{Name: "Monitor", Price: 899.90, Category: "Computers", Stock: 12}, false},
		{"zero price is allowed", models.Product{Name: "Sticker", Price: 0, Category: "Misc", Stock: 1}, false},
		{"negative price", models.Product{Name: "Monitor", Price: -5, Category: "Computers", Stock: 12}, true},
		{"negative stock", models.Product{Name: "Monitor", Price: 10, Category: "Computers", Stock: -1}, true},
		{"one character name", models.Product{Name: "M", Price: 10, Category: "Computers", Stock: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProduct(tt.product)
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error for %+v", tt.product)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestProductCreateRejectsNegativePriceBeforeInsert(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("negative price", func(mt *mtest.T) {
		products := NewProductAccessor(mt.DB, nil)

		_, err := products.Create(context.Background(), models.Product{
			Name:     "Broken TV",
			Price:    -5,
			Category: "Electronics",
			Stock:    1,
		})

		var validationErr *ValidationError
		require.True(mt, errors.As(err, &validationErr))
		assert.Nil(mt, mt.GetStartedEvent(), "no insert should be issued")
	})
}

func TestProductFindByPriceRangeIsInclusive(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("boundaries in filter", func(mt *mtest.T) {
		products := NewProductAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "products"), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Phone"}, {Key: "price", Value: 1000.0}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Laptop"}, {Key: "price", Value: 3000.0}},
		))

		results, err := products.FindByPriceRange(context.Background(), 1000, 3000)
		require.NoError(mt, err)
		assert.Len(mt, results, 2)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		price := evt.Command.Lookup("filter").Document().Lookup("price").Document()
		assert.Equal(mt, 1000.0, price.Lookup("$gte").Double())
		assert.Equal(mt, 3000.0, price.Lookup("$lte").Double())
	})
}

func TestProductSearchByNameIsCaseInsensitive(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("regex filter", func(mt *mtest.T) {
		products := NewProductAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "products"), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "iPhone 15 Pro"}},
		))

		results, err := products.SearchByName(context.Background(), "iphone")
		require.NoError(mt, err)
		assert.Len(mt, results, 1)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		nameFilter := evt.Command.Lookup("filter").Document().Lookup("name").Document()
		assert.Equal(mt, "iphone", nameFilter.Lookup("$regex").StringValue())
		assert.Equal(mt, "i", nameFilter.Lookup("$options").StringValue())
	})
}

func TestProductUpdateStock(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("negative stock rejected", func(mt *mtest.T) {
		products := NewProductAccessor(mt.DB, nil)

		_, err := products.UpdateStock(context.Background(), primitive.NewObjectID().Hex(), -3)
		var validationErr *ValidationError
		require.True(mt, errors.As(err, &validationErr))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("patches only the stock field", func(mt *mtest.T) {
		products := NewProductAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		_, err := products.UpdateStock(context.Background(), primitive.NewObjectID().Hex(), 75)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		set := evt.Command.Lookup("updates").Array().Index(0).Value().
			Document().Lookup("u").Document().Lookup("$set").Document()
		assert.Equal(mt, int32(75), set.Lookup("stock").Int32())

		elements, err := set.Elements()
		require.NoError(mt, err)
		assert.Len(mt, elements, 2, "stock and updatedAt only")
	})
}
