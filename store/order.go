package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"commercelib/models"
)

var orderRequiredFields = []string{"customerId", "items", "totalAmount"}

// OrderAccessor exposes CRUD, status tracking and reporting for the orders
// collection.
type OrderAccessor struct {
	*Accessor[models.Order]
}

func NewOrderAccessor(db *mongo.Database, log Logger) *OrderAccessor {
	return &OrderAccessor{NewAccessor[models.Order](db, "orders", orderRequiredFields, log)}
}

// OrdersReport aggregates orders whose orderDate falls inside an inclusive
// range.
type OrdersReport struct {
	TotalOrders       int64   `bson:"totalOrders" json:"totalOrders"`
	TotalRevenue      float64 `bson:"totalRevenue" json:"totalRevenue"`
	AverageOrderValue float64 `bson:"averageOrderValue" json:"averageOrderValue"`
}

// RevenueStatistics summarizes the spread of order totals inside an
// inclusive orderDate range.
type RevenueStatistics struct {
	Orders  int     `json:"orders"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"stdDev"`
}

func validateOrder(o models.Order) error {
	if o.CustomerID.IsZero() {
		return &ValidationError{Message: "invalid customer id"}
	}
	if len(o.Items) == 0 {
		return &ValidationError{Message: "order must contain at least one item"}
	}
	for _, item := range o.Items {
		if item.ProductID.IsZero() {
			return &ValidationError{Message: "invalid product id in items"}
		}
		if item.Quantity <= 0 {
			return &ValidationError{Message: "quantity must be greater than zero"}
		}
		if item.Price <= 0 {
			return &ValidationError{Message: "price must be greater than zero"}
		}
	}
	if o.TotalAmount <= 0 {
		return &ValidationError{Message: "total amount must be a positive number"}
	}
	return nil
}

// Create validates the order, then forces status to pending and orderDate
// to now, overriding any caller-supplied values for those two fields.
func (a *OrderAccessor) Create(ctx context.Context, order models.Order) (*CreateResult[models.Order], error) {
	if err := validateOrder(order); err != nil {
		a.log.Error("order validation failed", err)
		return nil, err
	}

	order.Status = models.StatusPending
	order.OrderDate = time.Now().UTC().Truncate(time.Millisecond)
	order.StatusUpdatedAt = time.Time{}

	return a.Accessor.Create(ctx, order)
}

// FindByCustomerID returns every order referencing the customer.
func (a *OrderAccessor) FindByCustomerID(ctx context.Context, customerID string) ([]models.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		idErr := &InvalidIDError{ID: customerID}
		a.log.Error("failed to look up orders by customer", idErr)
		return nil, idErr
	}

	results, err := a.FindAll(ctx, bson.M{"customerId": objectID})
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("found %d orders for customer %s", len(results), customerID))
	return results, nil
}

// FindByStatus returns orders with the exact status. The value is not
// checked against the known statuses.
func (a *OrderAccessor) FindByStatus(ctx context.Context, status string) ([]models.Order, error) {
	results, err := a.FindAll(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("found %d orders with status %q", len(results), status))
	return results, nil
}

// UpdateStatus moves the order to a new status and stamps statusUpdatedAt.
func (a *OrderAccessor) UpdateStatus(ctx context.Context, id, status string) (*UpdateResult, error) {
	if !models.IsValidOrderStatus(status) {
		err := &ValidationError{
			Message: fmt.Sprintf("invalid status %q, valid statuses: %s", status, strings.Join(models.OrderStatuses, ", ")),
		}
		a.log.Error("status update rejected", err)
		return nil, err
	}

	patch := bson.M{
		"status":          status,
		"statusUpdatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}
	return a.Update(ctx, id, patch)
}

// GetOrdersReport aggregates count, revenue sum and mean order value over
// orders with start <= orderDate <= end. An empty range yields zeros.
func (a *OrderAccessor) GetOrdersReport(ctx context.Context, start, end time.Time) (*OrdersReport, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"orderDate": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalOrders":       bson.M{"$sum": 1},
			"totalRevenue":      bson.M{"$sum": "$totalAmount"},
			"averageOrderValue": bson.M{"$avg": "$totalAmount"},
		}}},
	}

	cursor, err := a.coll.Aggregate(ctx, pipeline)
	if err != nil {
		a.log.Error("failed to aggregate orders report", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []OrdersReport
	if err := cursor.All(ctx, &results); err != nil {
		a.log.Error("failed to decode orders report", err)
		return nil, err
	}

	a.log.Info(fmt.Sprintf("orders report generated for %s - %s", start.Format(time.RFC3339), end.Format(time.RFC3339)))
	if len(results) == 0 {
		return &OrdersReport{}, nil
	}
	return &results[0], nil
}

// GetRevenueStatistics computes spread statistics over the totals of orders
// with start <= orderDate <= end. An empty range yields zeros.
func (a *OrderAccessor) GetRevenueStatistics(ctx context.Context, start, end time.Time) (*RevenueStatistics, error) {
	orders, err := a.FindAll(ctx, bson.M{"orderDate": bson.M{"$gte": start, "$lte": end}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return &RevenueStatistics{}, nil
	}

	totals := make(stats.Float64Data, 0, len(orders))
	for _, order := range orders {
		totals = append(totals, order.TotalAmount)
	}

	minimum, err := stats.Min(totals)
	if err != nil {
		return nil, err
	}
	maximum, err := stats.Max(totals)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(totals)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(totals)
	if err != nil {
		return nil, err
	}

	a.log.Info(fmt.Sprintf("revenue statistics computed over %d orders", len(orders)))
	return &RevenueStatistics{
		Orders:  len(orders),
		Minimum: minimum,
		Maximum: maximum,
		Median:  median,
		StdDev:  stdDev,
	}, nil
}
