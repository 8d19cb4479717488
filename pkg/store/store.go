// Package store is the Entity Store client: a document-oriented remote
// store holding the products, returns, supplier_photos and suppliers
// collections.
//
// Identifiers are store-assigned opaque strings; callers never self-assign
// them. Updates are partial merges — only the provided fields change.
// Subscriptions deliver full ordered snapshots: every emitted list entirely
// replaces the previous one, never a delta.
package store

import (
	"context"
	"errors"
)

// Collection names owned by this application.
const (
	Products       = "products"
	Returns        = "returns"
	SupplierPhotos = "supplier_photos"
	Suppliers      = "suppliers"
	Logs           = "logs"
)

// ErrNotFound is returned when an update or delete targets a missing record.
var ErrNotFound = errors.New("store: record not found")

// BatchUpdate is one (id, partial record) entry of a multi-record write.
type BatchUpdate struct {
	ID     string
	Fields map[string]any
}

// Driver is the persistence interface the repositories run against.
// The production implementation is *Mongo; tests use *Memory.
type Driver interface {
	// Create persists doc and returns the store-assigned identifier.
	Create(ctx context.Context, collection string, doc any) (string, error)

	// Update merges fields into the identified record.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes the identified record.
	Delete(ctx context.Context, collection, id string) error

	// BatchUpdate applies every entry in one bulk write. Used by the
	// supplier-deletion cascade so all affected products change together.
	BatchUpdate(ctx context.Context, collection string, updates []BatchUpdate) error

	// FindAll decodes the full collection, ordered by sortField, into out
	// (a pointer to a slice).
	FindAll(ctx context.Context, collection, sortField string, descending bool, out any) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int64, error)
}
