package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"commercelib/models"
)

var productRequiredFields = []string{"name", "price", "category", "stock"}

// ProductAccessor exposes CRUD and catalog queries for the products
// collection.
type ProductAccessor struct {
	*Accessor[models.Product]
}

func NewProductAccessor(db *mongo.Database, log Logger) *ProductAccessor {
	return &ProductAccessor{NewAccessor[models.Product](db, "products", productRequiredFields, log)}
}

func validateProduct(p models.Product) error {
	if p.Price < 0 {
		return &ValidationError{Message: "price must be a non-negative number"}
	}
	if p.Stock < 0 {
		return &ValidationError{Message: "stock must be a non-negative number"}
	}
	if p.Name != "" && utf8.RuneCountInString(p.Name) < 2 {
		return &ValidationError{Message: "product name must be at least 2 characters"}
	}
	return nil
}

// Create validates product-specific rules before delegating to the generic
// create.
func (a *ProductAccessor) Create(ctx context.Context, product models.Product) (*CreateResult[models.Product], error) {
	if err := validateProduct(product); err != nil {
		a.log.Error("product validation failed", err)
		return nil, err
	}
	return a.Accessor.Create(ctx, product)
}

// SearchByName matches product names containing name, case-insensitively.
func (a *ProductAccessor) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	filter := bson.M{"name": bson.M{"$regex": name, "$options": "i"}}
	results, err := a.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("name search %q returned %d products", name, len(results)))
	return results, nil
}

// FindByCategory returns products whose category matches exactly.
func (a *ProductAccessor) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	results, err := a.FindAll(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("found %d products in category %q", len(results), category))
	return results, nil
}

// FindByPriceRange returns products with min <= price <= max, boundaries
// included.
func (a *ProductAccessor) FindByPriceRange(ctx context.Context, min, max float64) ([]models.Product, error) {
	filter := bson.M{"price": bson.M{"$gte": min, "$lte": max}}
	results, err := a.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("found %d products in price range %v - %v", len(results), min, max))
	return results, nil
}

// UpdateStock replaces the stock count, rejecting negative values.
func (a *ProductAccessor) UpdateStock(ctx context.Context, id string, stock int) (*UpdateResult, error) {
	if stock < 0 {
		err := &ValidationError{Message: "stock must be a non-negative number"}
		a.log.Error("stock update rejected", err)
		return nil, err
	}
	return a.Update(ctx, id, bson.M{"stock": stock})
}
