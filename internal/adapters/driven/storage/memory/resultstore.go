package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore is an in-memory implementation of driven.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{records: make(map[string]domain.Record)}
}

// Save stores or replaces a record.
func (s *ResultStore) Save(_ context.Context, rec *domain.Record) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("save record: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// Get retrieves a record by ID.
func (s *ResultStore) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return &rec, nil
}

// List returns matching summaries, newest first.
func (s *ResultStore) List(_ context.Context, filter domain.RecordFilter) ([]domain.RecordSummary, error) {
	s.mu.RLock()
	out := make([]domain.RecordSummary, 0, len(s.records))
	for i := range s.records {
		rec := s.records[i]
		if matches(&rec, filter) {
			out = append(out, rec.Summarise())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Delete removes a record.
func (s *ResultStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

// Customers rolls records up by customer code, most recently seen first.
func (s *ResultStore) Customers(_ context.Context, limit int) ([]domain.CustomerSummary, error) {
	type rollup struct {
		sum    domain.CustomerSummary
		value  decimal.Decimal
		nameAt time.Time
		nameID string
	}

	s.mu.RLock()
	byCode := make(map[string]*rollup)
	for _, rec := range s.records {
		meta := rec.Result.Meta
		if meta.CustomerCode == "" {
			continue
		}
		r, ok := byCode[meta.CustomerCode]
		if !ok {
			r = &rollup{sum: domain.CustomerSummary{Code: meta.CustomerCode}}
			byCode[meta.CustomerCode] = r
		}
		r.sum.Documents++
		if rec.CreatedAt.After(r.sum.LastSeen) {
			r.sum.LastSeen = rec.CreatedAt
		}
		if rec.Result.Success && rec.Result.Summary.Total != nil {
			r.value = r.value.Add(decimal.NewFromFloat(*rec.Result.Summary.Total))
		}
		// The newest name wins; equal timestamps fall back to the larger ID.
		newer := rec.CreatedAt.After(r.nameAt) || (rec.CreatedAt.Equal(r.nameAt) && rec.ID > r.nameID)
		if meta.CustomerName != "" && (r.sum.Name == "" || newer) {
			r.sum.Name = meta.CustomerName
			r.nameAt, r.nameID = rec.CreatedAt, rec.ID
		}
	}
	s.mu.RUnlock()

	out := make([]domain.CustomerSummary, 0, len(byCode))
	for _, r := range byCode {
		r.sum.TotalValue = r.value.InexactFloat64()
		out = append(out, r.sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].LastSeen.After(out[j].LastSeen)
		}
		return out[i].Code < out[j].Code
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats aggregates counts and values over all records.
func (s *ResultStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		stats     domain.StoreStats
		total     decimal.Decimal
		customers = make(map[string]bool)
		byType    = make(map[domain.DocType]*domain.DocTypeStats)
		values    = make(map[domain.DocType]decimal.Decimal)
	)
	for _, rec := range s.records {
		res := rec.Result
		t, ok := byType[res.Meta.Type]
		if !ok {
			t = &domain.DocTypeStats{DocType: res.Meta.Type}
			byType[res.Meta.Type] = t
		}
		stats.Documents++
		t.Documents++
		if !res.Success {
			stats.Failed++
			t.Failed++
		} else if res.Summary.Total != nil {
			v := decimal.NewFromFloat(*res.Summary.Total)
			total = total.Add(v)
			values[res.Meta.Type] = values[res.Meta.Type].Add(v)
		}
		if res.Meta.CustomerCode != "" {
			customers[res.Meta.CustomerCode] = true
		}
	}

	stats.Customers = len(customers)
	stats.TotalValue = total.InexactFloat64()
	stats.ByType = make([]domain.DocTypeStats, 0, len(byType))
	for dt, t := range byType {
		t.TotalValue = values[dt].InexactFloat64()
		stats.ByType = append(stats.ByType, *t)
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		return stats.ByType[i].DocType < stats.ByType[j].DocType
	})
	return &stats, nil
}

func matches(rec *domain.Record, f domain.RecordFilter) bool {
	if f.DocType != "" && rec.Result.Meta.Type != f.DocType {
		return false
	}
	if f.FailedOnly && rec.Result.Success {
		return false
	}
	if f.CustomerCode != "" && rec.Result.Meta.CustomerCode != f.CustomerCode {
		return false
	}
	return true
}
