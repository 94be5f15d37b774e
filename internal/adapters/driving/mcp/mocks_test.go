package mcp

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// mockParseService is a mock implementation of driving.ParseService.
type mockParseService struct {
	rec      *domain.Record
	err      error
	filename string
	data     []byte
	opts     driving.ParseOptions
}

func (m *mockParseService) ParseFile(_ context.Context, _ string, _ driving.ParseOptions) (*domain.Record, error) {
	return m.rec, m.err
}

func (m *mockParseService) ParseBytes(
	_ context.Context,
	filename string,
	data []byte,
	opts driving.ParseOptions,
) (*domain.Record, error) {
	m.filename, m.data, m.opts = filename, data, opts
	return m.rec, m.err
}

func (m *mockParseService) ParseFiles(
	_ context.Context,
	_ []string,
	_ driving.ParseOptions,
	_ int,
) []driving.ParseOutcome {
	return nil
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records   map[string]*domain.Record
	list      []domain.RecordSummary
	filter    domain.RecordFilter
	customers []domain.CustomerSummary
	limit     int
	stats     *domain.StoreStats
	err       error
}

func (m *mockRecordService) List(_ context.Context, f domain.RecordFilter) ([]domain.RecordSummary, error) {
	m.filter = f
	return m.list, m.err
}

func (m *mockRecordService) Get(_ context.Context, id string) (*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockRecordService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRecordService) Publish(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRecordService) Customers(_ context.Context, limit int) ([]domain.CustomerSummary, error) {
	m.limit = limit
	return m.customers, m.err
}

func (m *mockRecordService) Stats(context.Context) (*domain.StoreStats, error) {
	return m.stats, m.err
}
