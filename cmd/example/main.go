package main

import (
	"context"
	"log"
	"time"

	"commercelib"
	"commercelib/internal/config"
	"commercelib/models"
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
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := lib.Close(closeCtx); err != nil {
			log.Println("close error:", err)
		}
	}()

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

	opCtx := context.Background()

	log.Println("creating product...")
	productResult, err := products.Create(opCtx, models.Product{
		Name:        "iPhone 15 Pro",
		Description: "iPhone 15 Pro 256GB",
		Price:       7999.99,
		Category:    "Electronics",
		Stock:       30,
		Brand:       "Apple",
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("product created with id:", productResult.ID.Hex())

	inRange, err := products.FindByPriceRange(opCtx, 1000, 3000)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %d products between 1000 and 3000", len(inRange))

	log.Println("creating customer...")
	customerResult, err := customers.Create(opCtx, models.Customer{
		Name:  "Ana Paula Costa",
		Email: "ana.costa@email.com",
		Phone: "41977777777",
		Address: &models.Address{
			Street:  "Rua XV de Novembro, 789",
			City:    "Curitiba",
			State:   "PR",
			ZipCode: "80020-310",
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("customer created with id:", customerResult.ID.Hex())

	log.Println("creating order...")
	orderResult, err := orders.Create(opCtx, models.Order{
		CustomerID: customerResult.ID,
		Items: []models.OrderItem{
			{ProductID: productResult.ID, Quantity: 1, Price: 7999.99},
		},
		TotalAmount:     7999.99,
		ShippingAddress: customerResult.Document.Address,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("order created with id:", orderResult.ID.Hex())

	if _, err := orders.UpdateStatus(opCtx, orderResult.ID.Hex(), models.StatusProcessing); err != nil {
		log.Fatal(err)
	}
	log.Println("order status updated to processing")

	history, err := orders.FindByCustomerID(opCtx, customerResult.ID.Hex())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("customer has %d order(s)", len(history))

	report, err := orders.GetOrdersReport(opCtx, time.Now().Add(-24*time.Hour), time.Now())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("last 24h: %d orders, revenue %.2f, average %.2f",
		report.TotalOrders, report.TotalRevenue, report.AverageOrderValue)
}
