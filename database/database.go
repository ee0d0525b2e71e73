package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotConnected is returned when the database handle is used before
// Connect has succeeded.
var ErrNotConnected = errors.New("database: not connected")

// ConnectionError wraps a failure to reach the MongoDB deployment.
type ConnectionError struct {
	URI string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database: connect to %s failed: %v", e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Database holds a single shared connection to a MongoDB deployment and
// hands out collection handles. One instance is meant to be shared by all
// accessors built on top of it.
type Database struct {
	uri  string
	name string

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

// New builds an unconnected handle. Connect must be called before use.
func New(uri, name string) *Database {
	return &Database{uri: uri, name: name}
}

// Connect dials the deployment and verifies it with a ping. Calling Connect
// on an already connected handle is a no-op.
func (d *Database) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.uri))
	if err != nil {
		return &ConnectionError{URI: d.uri, Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return &ConnectionError{URI: d.uri, Err: err}
	}

	d.client = client
	d.db = client.Database(d.name)
	return nil
}

// Disconnect releases the connection. It is a no-op when never connected.
func (d *Database) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}

	err := d.client.Disconnect(ctx)
	d.client = nil
	d.db = nil
	return err
}

// DB returns the cached database handle.
func (d *Database) DB() (*mongo.Database, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil, ErrNotConnected
	}
	return d.db, nil
}

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) (*mongo.Collection, error) {
	db, err := d.DB()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}
