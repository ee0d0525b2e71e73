package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"commercelib/models"
)

func validOrder() models.Order {
	return models.Order{
		CustomerID: primitive.NewObjectID(),
		Items: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), Quantity: 1, Price: 7999.99},
		},
		TotalAmount: 7999.99,
	}
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Order)
		wantErr bool
	}{
		{"valid", func(o *models.Order) {}, false},
		{"zero customer id", func(o *models.Order) { o.CustomerID = primitive.NilObjectID }, true},
		{"no items", func(o *models.Order) { o.Items = nil }, true},
		{"zero product id", func(o *models.Order) { o.Items[0].ProductID = primitive.NilObjectID }, true},
		{"zero quantity", func(o *models.Order) { o.Items[0].Quantity = 0 }, true},
		{"negative item price", func(o *models.Order) { o.Items[0].Price = -1 }, true},
		{"zero total", func(o *models.Order) { o.TotalAmount = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(&order)
			err := validateOrder(order)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOrderCreateForcesPendingStatus(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("caller status overridden", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		order := validOrder()
		order.Status = models.StatusShipped

		result, err := orders.Create(context.Background(), order)
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusPending, result.Document.Status)
		assert.False(mt, result.Document.OrderDate.IsZero())

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "insert", evt.CommandName)
		inserted := evt.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, models.StatusPending, inserted.Lookup("status").StringValue())
		_, err = inserted.LookupErr("orderDate")
		assert.NoError(mt, err)
	})
}

func TestOrderUpdateStatus(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("unknown status rejected without store call", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)

		_, err := orders.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "teleported")
		var validationErr *ValidationError
		require.True(mt, errors.As(err, &validationErr))
		assert.Nil(mt, mt.GetStartedEvent(), "order must not be mutated")
	})

	mt.Run("sets status and statusUpdatedAt", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		_, err := orders.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusConfirmed)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		set := evt.Command.Lookup("updates").Array().Index(0).Value().
			Document().Lookup("u").Document().Lookup("$set").Document()
		assert.Equal(mt, models.StatusConfirmed, set.Lookup("status").StringValue())
		_, err = set.LookupErr("statusUpdatedAt")
		assert.NoError(mt, err)
	})
}

func TestOrderFindByCustomerID(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("invalid id", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)

		_, err := orders.FindByCustomerID(context.Background(), "not-hex")
		var idErr *InvalidIDError
		require.True(mt, errors.As(err, &idErr))
	})

	mt.Run("filters by customerId", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		customerID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "customerId", Value: customerID},
			{Key: "status", Value: models.StatusPending},
			{Key: "totalAmount", Value: 100.0},
		}))

		results, err := orders.FindByCustomerID(context.Background(), customerID.Hex())
		require.NoError(mt, err)
		require.Len(mt, results, 1)
		assert.Equal(mt, customerID, results[0].CustomerID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, customerID, evt.Command.Lookup("filter").Document().Lookup("customerId").ObjectID())
	})
}

func TestOrderFindByStatusSkipsValidation(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("unknown status is a plain filter", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch))

		results, err := orders.FindByStatus(context.Background(), "teleported")
		require.NoError(mt, err)
		assert.Empty(mt, results)
	})
}

func TestGetOrdersReport(t *testing.T) {
	mt := newMockTest(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	mt.Run("empty range returns zeros", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch))

		report, err := orders.GetOrdersReport(context.Background(), start, end)
		require.NoError(mt, err)
		assert.Equal(mt, &OrdersReport{}, report)
	})

	mt.Run("aggregated totals", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalOrders", Value: 2},
			{Key: "totalRevenue", Value: 150.0},
			{Key: "averageOrderValue", Value: 75.0},
		}))

		report, err := orders.GetOrdersReport(context.Background(), start, end)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), report.TotalOrders)
		assert.Equal(mt, 150.0, report.TotalRevenue)
		assert.Equal(mt, 75.0, report.AverageOrderValue)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "aggregate", evt.CommandName)
		match := evt.Command.Lookup("pipeline").Array().Index(0).Value().
			Document().Lookup("$match").Document().Lookup("orderDate").Document()
		_, err = match.LookupErr("$gte")
		assert.NoError(mt, err)
		_, err = match.LookupErr("$lte")
		assert.NoError(mt, err)
	})
}

func TestGetRevenueStatistics(t *testing.T) {
	mt := newMockTest(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	mt.Run("empty range returns zeros", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch))

		statistics, err := orders.GetRevenueStatistics(context.Background(), start, end)
		require.NoError(mt, err)
		assert.Equal(mt, &RevenueStatistics{}, statistics)
	})

	mt.Run("spread over totals", func(mt *mtest.T) {
		orders := NewOrderAccessor(mt.DB, nil)
		docs := make([]bson.D, 0, 3)
		for _, total := range []float64{100, 200, 600} {
			docs = append(docs, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "customerId", Value: primitive.NewObjectID()},
				{Key: "status", Value: models.StatusDelivered},
				{Key: "totalAmount", Value: total},
			})
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "orders"), mtest.FirstBatch, docs...))

		statistics, err := orders.GetRevenueStatistics(context.Background(), start, end)
		require.NoError(mt, err)
		assert.Equal(mt, 3, statistics.Orders)
		assert.Equal(mt, 100.0, statistics.Minimum)
		assert.Equal(mt, 600.0, statistics.Maximum)
		assert.Equal(mt, 200.0, statistics.Median)
		assert.InDelta(mt, 216.02, statistics.StdDev, 0.01)
	})
}
