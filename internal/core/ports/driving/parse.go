package driving

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// Extractor is the extraction engine: bytes in, ParseResult out.
// It never fails; problems are reported inside the result.
type Extractor interface {
	Extract(ctx context.Context, raw *domain.RawInput) domain.ParseResult
}

// ParseOptions controls what happens around extraction.
type ParseOptions struct {
	// Form forces a form; FormUnknown means detect.
	Form domain.Form

	// Store persists the record.
	Store bool

	// Publish forwards the record to the webhook after storing.
	Publish bool
}

// ParseService turns files and payloads into records.
type ParseService interface {
	// ParseFile reads and parses a file from disk.
	ParseFile(ctx context.Context, path string, opts ParseOptions) (*domain.Record, error)

	// ParseBytes parses an in-memory payload. filename is used for form
	// detection and provenance.
	ParseBytes(ctx context.Context, filename string, data []byte, opts ParseOptions) (*domain.Record, error)

	// ParseFiles parses paths concurrently with at most workers in flight.
	// Outcomes are returned in input order.
	ParseFiles(ctx context.Context, paths []string, opts ParseOptions, workers int) []ParseOutcome
}

// ParseOutcome is the result of parsing one file in a batch.
type ParseOutcome struct {
	Path   string
	Record *domain.Record
	Err    error
}

// RecordService manages stored records.
type RecordService interface {
	// List returns summaries matching the filter.
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.RecordSummary, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error

	// Publish re-sends a stored record to the webhook.
	Publish(ctx context.Context, id string) error

	// Customers lists customers seen in stored records.
	Customers(ctx context.Context, limit int) ([]domain.CustomerSummary, error)

	// Stats summarises the store.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
