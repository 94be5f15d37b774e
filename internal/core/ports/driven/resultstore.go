package driven

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// ResultStore persists parse records.
// Backed by SQLite, with an in-memory variant for tests.
type ResultStore interface {
	// Save stores or replaces a record.
	Save(ctx context.Context, rec *domain.Record) error

	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound when the ID is unknown.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// List returns record summaries, newest first.
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.RecordSummary, error)

	// Delete removes a record and its line items.
	Delete(ctx context.Context, id string) error

	// Customers rolls records up by customer code, most recently seen
	// first. Records without a customer code are skipped. limit <= 0
	// returns every customer.
	Customers(ctx context.Context, limit int) ([]domain.CustomerSummary, error)

	// Stats aggregates counts and values over all records, with one
	// ByType entry per document type present, ordered by type.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
