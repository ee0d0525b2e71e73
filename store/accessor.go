// Package store implements CRUD and domain queries for the products,
// customers and orders collections. A generic Accessor carries the shared
// create/read/update/delete behaviour; the per-entity accessors compose it
// with their own validation rules and extra queries.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Accessor provides generic single-document operations over one collection.
// It validates required fields on create and maintains the createdAt and
// updatedAt audit timestamps.
type Accessor[T any] struct {
	coll     *mongo.Collection
	name     string
	required []string
	log      Logger
}

// NewAccessor binds an accessor to a collection. required lists the bson
// field names that must be present and, when strings, non-blank on create.
// A nil log falls back to NopLogger.
func NewAccessor[T any](db *mongo.Database, collection string, required []string, log Logger) *Accessor[T] {
	if log == nil {
		log = NopLogger{}
	}
	return &Accessor[T]{
		coll:     db.Collection(collection),
		name:     collection,
		required: required,
		log:      log,
	}
}

// CreateResult carries the generated identifier and the document as stored,
// including system-set timestamps.
type CreateResult[T any] struct {
	ID       primitive.ObjectID
	Document T
}

// UpdateResult reports how many fields of the matched document actually
// changed.
type UpdateResult struct {
	ModifiedCount int64
}

// Create validates required fields, stamps createdAt and updatedAt, and
// inserts the document.
func (a *Accessor[T]) Create(ctx context.Context, doc T) (*CreateResult[T], error) {
	raw, err := toDocument(doc)
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to encode %s", a.name), err)
		return nil, err
	}

	if missing := a.missingFields(raw); len(missing) > 0 {
		vErr := &ValidationError{MissingFields: missing}
		a.log.Error(fmt.Sprintf("failed to create %s", a.name), vErr)
		return nil, vErr
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	raw["createdAt"] = now
	raw["updatedAt"] = now
	delete(raw, "_id")

	res, err := a.coll.InsertOne(ctx, raw)
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to create %s", a.name), err)
		return nil, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	raw["_id"] = id

	var stored T
	if err := fromDocument(raw, &stored); err != nil {
		a.log.Error(fmt.Sprintf("failed to decode stored %s", a.name), err)
		return nil, err
	}

	a.log.Info(fmt.Sprintf("%s created with id %s", a.name, id.Hex()))
	return &CreateResult[T]{ID: id, Document: stored}, nil
}

// FindByID returns the matching document, or (nil, nil) when no document
// has the identifier.
func (a *Accessor[T]) FindByID(ctx context.Context, id string) (*T, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		idErr := &InvalidIDError{ID: id}
		a.log.Error(fmt.Sprintf("failed to look up %s by id", a.name), idErr)
		return nil, idErr
	}

	var result T
	err = a.coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		a.log.Warn(fmt.Sprintf("%s not found with id %s", a.name, id))
		return nil, nil
	}
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to look up %s by id", a.name), err)
		return nil, err
	}

	a.log.Info(fmt.Sprintf("%s found with id %s", a.name, id))
	return &result, nil
}

// FindAll returns every document matching filter in store-native order. A
// nil filter matches everything.
func (a *Accessor[T]) FindAll(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}

	cursor, err := a.coll.Find(ctx, filter, opts...)
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to list %s", a.name), err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		a.log.Error(fmt.Sprintf("failed to decode %s list", a.name), err)
		return nil, err
	}

	a.log.Info(fmt.Sprintf("found %d %s records", len(results), a.name))
	return results, nil
}

// Update applies patch with $set semantics, refreshing updatedAt. Fields
// absent from patch are left untouched. The caller's map is not modified.
func (a *Accessor[T]) Update(ctx context.Context, id string, patch bson.M) (*UpdateResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		idErr := &InvalidIDError{ID: id}
		a.log.Error(fmt.Sprintf("failed to update %s", a.name), idErr)
		return nil, idErr
	}

	set := bson.M{}
	for key, value := range patch {
		set[key] = value
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	res, err := a.coll.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to update %s", a.name), err)
		return nil, err
	}

	if res.MatchedCount == 0 {
		nfErr := &NotFoundError{Collection: a.name, ID: id}
		a.log.Error(fmt.Sprintf("failed to update %s", a.name), nfErr)
		return nil, nfErr
	}

	a.log.Info(fmt.Sprintf("%s updated with id %s", a.name, id))
	return &UpdateResult{ModifiedCount: res.ModifiedCount}, nil
}

// Delete removes the document with the given identifier.
func (a *Accessor[T]) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		idErr := &InvalidIDError{ID: id}
		a.log.Error(fmt.Sprintf("failed to delete %s", a.name), idErr)
		return idErr
	}

	res, err := a.coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		a.log.Error(fmt.Sprintf("failed to delete %s", a.name), err)
		return err
	}

	if res.DeletedCount == 0 {
		nfErr := &NotFoundError{Collection: a.name, ID: id}
		a.log.Error(fmt.Sprintf("failed to delete %s", a.name), nfErr)
		return nfErr
	}

	a.log.Info(fmt.Sprintf("%s deleted with id %s", a.name, id))
	return nil
}

func (a *Accessor[T]) missingFields(doc bson.M) []string {
	var missing []string
	for _, field := range a.required {
		value, ok := doc[field]
		if !ok || value == nil {
			missing = append(missing, field)
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func toDocument[T any](v T) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument[T any](doc bson.M, out *T) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}
