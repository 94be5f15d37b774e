package services

import (
	"context"
	"fmt"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// RecordService manages stored records.
type RecordService struct {
	store     driven.ResultStore
	publisher driven.Publisher
}

// NewRecordService creates a record service. publisher may be nil.
func NewRecordService(store driven.ResultStore, publisher driven.Publisher) *RecordService {
	return &RecordService{store: store, publisher: publisher}
}

// List returns summaries matching the filter.
func (s *RecordService) List(ctx context.Context, filter domain.RecordFilter) ([]domain.RecordSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotConfigured
	}
	return s.store.List(ctx, filter)
}

// Get retrieves a record by ID.
func (s *RecordService) Get(ctx context.Context, id string) (*domain.Record, error) {
	if s.store == nil {
		return nil, domain.ErrNotConfigured
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotConfigured
	}
	if id == "" {
		return fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// Publish re-sends a stored record.
func (s *RecordService) Publish(ctx context.Context, id string) error {
	if s.publisher == nil {
		return fmt.Errorf("publish: %w", domain.ErrNotConfigured)
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, rec); err != nil {
		return fmt.Errorf("publish %s: %w", id, err)
	}
	return nil
}

// Customers lists customers seen in stored records, most recent first.
func (s *RecordService) Customers(ctx context.Context, limit int) ([]domain.CustomerSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotConfigured
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", domain.ErrInvalidInput, limit)
	}
	return s.store.Customers(ctx, limit)
}

// Stats summarises the store.
func (s *RecordService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	if s.store == nil {
		return nil, domain.ErrNotConfigured
	}
	return s.store.Stats(ctx)
}
