package store

import (
	"fmt"
	"strings"
)

// ValidationError is returned when input is malformed or incomplete. It is
// always produced before any store interaction.
type ValidationError struct {
	Message       string
	MissingFields []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return "store: required fields missing: " + strings.Join(e.MissingFields, ", ")
	}
	return "store: " + e.Message
}

// InvalidIDError is returned when an identifier string does not parse as an
// ObjectID.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("store: invalid id %q", e.ID)
}

// NotFoundError is returned by update and delete when a well-formed
// identifier matches no document.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s not found with id %s", e.Collection, e.ID)
}

// DuplicateError is returned when a value that must be unique is already
// taken.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("store: %s %q already registered", e.Field, e.Value)
}
