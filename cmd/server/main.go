package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"commercelib"
	"commercelib/internal/config"
)

func main() {
	cfg := config.Load()

	lib := commercelib.New(commercelib.Config{
		MongoURI: cfg.MongoURI,
		DBName:   cfg.DBName,
		LogDir:   cfg.LogDir,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := lib.Initialize(ctx); err != nil {
		log.Fatal(err)
	}

	log.Println("MongoDB connected to:", cfg.DBName)

	products, err := lib.Products()
	if err != nil {
		log.Fatal(err)
	}
	customers, err := lib.Customers()
	if err != nil {
		log.Fatal(err)
	}
	orders, err := lib.Orders()
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	r.GET("/products", listProducts(products))
	r.POST("/products", createProduct(products))
	r.GET("/products/:id", getProduct(products))
	r.PUT("/products/:id", updateProduct(products))
	r.PATCH("/products/:id/stock", updateProductStock(products))
	r.DELETE("/products/:id", deleteProduct(products))

	r.GET("/customers", listCustomers(customers))
	r.POST("/customers", createCustomer(customers))
	r.GET("/customers/:id", getCustomer(customers))
	r.DELETE("/customers/:id", deleteCustomer(customers))

	r.GET("/orders", listOrders(orders))
	r.POST("/orders", createOrder(orders))
	r.GET("/orders/:id", getOrder(orders))
	r.PATCH("/orders/:id/status", updateOrderStatus(orders))

	r.GET("/reports/orders", ordersReport(orders))
	r.GET("/reports/revenue", revenueStatistics(orders))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
