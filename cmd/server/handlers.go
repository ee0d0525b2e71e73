package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"commercelib/database"
	"commercelib/models"
	"commercelib/store"
)

/* =======================
   REQUEST DTOs
======================= */

type createProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Stock       *int     `json:"stock" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand"`
}

type updateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

type createCustomerRequest struct {
	Name    string          `json:"name" binding:"required"`
	Email   string          `json:"email" binding:"required"`
	Phone   string          `json:"phone" binding:"required"`
	Address *models.Address `json:"address"`
}

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
}

type createOrderRequest struct {
	CustomerID      string                   `json:"customerId" binding:"required"`
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	TotalAmount     float64                  `json:"totalAmount" binding:"required"`
	ShippingAddress *models.Address          `json:"shippingAddress"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

/* =======================
   HELPERS
======================= */

func statusForError(err error) int {
	var validationErr *store.ValidationError
	var idErr *store.InvalidIDError
	var notFoundErr *store.NotFoundError
	var duplicateErr *store.DuplicateError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &idErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &duplicateErr):
		return http.StatusConflict
	case errors.Is(err, database.ErrNotConnected):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid page")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = l
	}

	return page, limit, nil
}

func primitiveIDFromHex(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &store.InvalidIDError{ID: id}
	}
	return objectID, nil
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

/* =======================
   PRODUCTS
======================= */

func listProducts(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if search := c.Query("search"); search != "" {
			results, err := products.SearchByName(ctx, search)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		if category := c.Query("category"); category != "" {
			results, err := products.FindByCategory(ctx, category)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		if minStr, maxStr := c.Query("minPrice"), c.Query("maxPrice"); minStr != "" && maxStr != "" {
			min, errMin := strconv.ParseFloat(minStr, 64)
			max, errMax := strconv.ParseFloat(maxStr, 64)
			if errMin != nil || errMax != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "minPrice and maxPrice must be numbers"})
				return
			}
			results, err := products.FindByPriceRange(ctx, min, max)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts := options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
		results, err := products.FindAll(ctx, nil, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createProduct(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := products.Create(c.Request.Context(), models.Product{
			Name:        req.Name,
			Price:       *req.Price,
			Category:    req.Category,
			Stock:       *req.Stock,
			Description: req.Description,
			Brand:       req.Brand,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result.Document)
	}
}

func getProduct(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updateProduct(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		patch := bson.M{}
		if req.Name != nil {
			patch["name"] = *req.Name
		}
		if req.Price != nil {
			if *req.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
			patch["price"] = *req.Price
		}
		if req.Category != nil {
			patch["category"] = *req.Category
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
				return
			}
			patch["stock"] = *req.Stock
		}
		if req.Description != nil {
			patch["description"] = *req.Description
		}
		if req.Brand != nil {
			patch["brand"] = *req.Brand
		}

		if len(patch) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		result, err := products.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"modifiedCount": result.ModifiedCount})
	}
}

func updateProductStock(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock required"})
			return
		}

		result, err := products.UpdateStock(c.Request.Context(), c.Param("id"), *req.Stock)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"modifiedCount": result.ModifiedCount})
	}
}

func deleteProduct(products *store.ProductAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

/* =======================
   CUSTOMERS
======================= */

func listCustomers(customers *store.CustomerAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if email := c.Query("email"); email != "" {
			customer, err := customers.FindByEmail(ctx, email)
			if err != nil {
				respondError(c, err)
				return
			}
			if customer == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			c.JSON(http.StatusOK, customer)
			return
		}

		if search := c.Query("search"); search != "" {
			results, err := customers.SearchByName(ctx, search)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		results, err := customers.FindAll(ctx, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createCustomer(customers *store.CustomerAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := customers.Create(c.Request.Context(), models.Customer{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result.Document)
	}
}

func getCustomer(customers *store.CustomerAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := customers.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if customer == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func deleteCustomer(customers *store.CustomerAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
	}
}

/* =======================
   ORDERS
======================= */

func listOrders(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if customerID := c.Query("customerId"); customerID != "" {
			results, err := orders.FindByCustomerID(ctx, customerID)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		if status := c.Query("status"); status != "" {
			results, err := orders.FindByStatus(ctx, status)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		results, err := orders.FindAll(ctx, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createOrder(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customerID, err := primitiveIDFromHex(req.CustomerID)
		if err != nil {
			respondError(c, err)
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitiveIDFromHex(item.ProductID)
			if err != nil {
				respondError(c, err)
				return
			}
			items = append(items, models.OrderItem{
				ProductID: productID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		result, err := orders.Create(c.Request.Context(), models.Order{
			CustomerID:      customerID,
			Items:           items,
			TotalAmount:     req.TotalAmount,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result.Document)
	}
}

func getOrder(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func updateOrderStatus(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
			return
		}

		result, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"modifiedCount": result.ModifiedCount})
	}
}

func ordersReport(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := parseDateParam(c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
		end, err := parseDateParam(c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}

		report, err := orders.GetOrdersReport(c.Request.Context(), start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func revenueStatistics(orders *store.OrderAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := parseDateParam(c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
		end, err := parseDateParam(c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}

		statistics, err := orders.GetRevenueStatistics(c.Request.Context(), start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, statistics)
	}
}
