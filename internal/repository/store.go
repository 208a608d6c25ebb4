// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
)

// CollectionTx exposes the mutations permitted inside one atomic unit.
type CollectionTx interface {
	// Clear removes all records of a collection.
	Clear(ctx context.Context, c model.Collection) error
	// BulkInsert appends records to a collection without deduplication.
	BulkInsert(ctx context.Context, c model.Collection, recs []model.Record) error
}

// CollectionStore is the adapter contract over the underlying data store.
//
// WithTransaction is the linchpin of restore safety: either every mutation
// performed by fn becomes visible at once, or none does.
type CollectionStore interface {
	// ListCollections enumerates all known collection names.
	ListCollections(ctx context.Context) ([]model.Collection, error)
	// ReadAll returns every record of a collection.
	ReadAll(ctx context.Context, c model.Collection) ([]model.Record, error)
	// Count returns the number of records in a collection.
	Count(ctx context.Context, c model.Collection) (int64, error)
	// Clear removes all records of a collection.
	Clear(ctx context.Context, c model.Collection) error
	// BulkInsert appends records to a collection without deduplication.
	BulkInsert(ctx context.Context, c model.Collection, recs []model.Record) error
	// WithTransaction runs fn with exclusive write access to the listed
	// collections. If fn returns an error every mutation is rolled back and
	// the error propagates; otherwise all mutations commit atomically.
	WithTransaction(ctx context.Context, cols []model.Collection, fn func(tx CollectionTx) error) error
}
