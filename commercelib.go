// Package commercelib is an embeddable data-access library for an
// e-commerce MongoDB database. It exposes CRUD and domain queries over the
// products, customers and orders collections through a single Library
// facade that owns the shared connection.
package commercelib

import (
	"context"
	"log"
	"sync"

	"commercelib/database"
	"commercelib/logger"
	"commercelib/store"
)

type Config struct {
	MongoURI string
	DBName   string
	// LogDir receives the level-named log files. Empty disables the file
	// sink.
	LogDir string
}

// Library composes the connection lifecycle and the three accessors.
type Library struct {
	cfg Config
	db  *database.Database
	log store.Logger

	mu        sync.Mutex
	connected bool
	products  *store.ProductAccessor
	customers *store.CustomerAccessor
	orders    *store.OrderAccessor
}

func New(cfg Config) *Library {
	return &Library{
		cfg: cfg,
		db:  database.New(cfg.MongoURI, cfg.DBName),
		log: store.NopLogger{},
	}
}

// Initialize connects to the database, ensures indexes and builds the
// accessors. Index creation failures are logged but not fatal.
func (l *Library) Initialize(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		return nil
	}

	if l.cfg.LogDir != "" {
		fileLog, err := logger.New(l.cfg.LogDir)
		if err != nil {
			log.Println("file logger disabled:", err)
		} else {
			l.log = fileLog
		}
	}

	if err := l.db.Connect(ctx); err != nil {
		l.log.Error("failed to initialize e-commerce library", err)
		return err
	}

	db, err := l.db.DB()
	if err != nil {
		return err
	}

	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Printf("customer index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	l.products = store.NewProductAccessor(db, l.log)
	l.customers = store.NewCustomerAccessor(db, l.log)
	l.orders = store.NewOrderAccessor(db, l.log)
	l.connected = true

	l.log.Info("e-commerce library initialized")
	return nil
}

// Close releases the connection. Closing a library that was never
// initialized is a no-op.
func (l *Library) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.db.Disconnect(ctx)
	l.connected = false
	l.products = nil
	l.customers = nil
	l.orders = nil

	if err != nil {
		l.log.Error("failed to close e-commerce library", err)
		return err
	}
	l.log.Info("e-commerce library closed")
	return nil
}

// Products returns the product accessor, or database.ErrNotConnected before
// Initialize has succeeded.
func (l *Library) Products() (*store.ProductAccessor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil, database.ErrNotConnected
	}
	return l.products, nil
}

// Customers returns the customer accessor, or database.ErrNotConnected
// before Initialize has succeeded.
func (l *Library) Customers() (*store.CustomerAccessor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil, database.ErrNotConnected
	}
	return l.customers, nil
}

// Orders returns the order accessor, or database.ErrNotConnected before
// Initialize has succeeded.
func (l *Library) Orders() (*store.OrderAccessor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil, database.ErrNotConnected
	}
	return l.orders, nil
}
