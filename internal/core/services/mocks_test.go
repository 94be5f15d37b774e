package services

import (
	"context"
	"sync"
	"time"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// mockExtractor returns a canned result and records the inputs it saw.
type mockExtractor struct {
	mu     sync.Mutex
	result domain.ParseResult
	inputs []domain.RawInput
}

func (m *mockExtractor) Extract(_ context.Context, raw *domain.RawInput) domain.ParseResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, *raw)
	res := m.result
	res.Form = raw.Form
	return res
}

func (m *mockExtractor) calls() []domain.RawInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RawInput(nil), m.inputs...)
}

type mockTextExtractor struct {
	text string
	err  error
	seen [][]byte
}

func (m *mockTextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	m.seen = append(m.seen, data)
	return m.text, m.err
}

type mockPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, rec.ID)
	return nil
}

// failingStore rejects every write.
type failingStore struct {
	err error
}

func (f failingStore) Save(context.Context, *domain.Record) error { return f.err }

func (f failingStore) Get(context.Context, string) (*domain.Record, error) { return nil, f.err }

func (f failingStore) List(context.Context, domain.RecordFilter) ([]domain.RecordSummary, error) {
	return nil, f.err
}

func (f failingStore) Delete(context.Context, string) error { return f.err }

func (f failingStore) Customers(context.Context, int) ([]domain.CustomerSummary, error) {
	return nil, f.err
}

func (f failingStore) Stats(context.Context) (*domain.StoreStats, error) { return nil, f.err }

// gatedExtractor holds every call briefly and records the peak number of
// concurrent calls.
type gatedExtractor struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	total    int
}

func (g *gatedExtractor) Extract(_ context.Context, raw *domain.RawInput) domain.ParseResult {
	g.mu.Lock()
	g.inFlight++
	g.total++
	g.peak = max(g.peak, g.inFlight)
	g.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()
	return domain.ParseResult{Form: raw.Form, Success: true}
}
