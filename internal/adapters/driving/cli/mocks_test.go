package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// mockParseService is a mock implementation of driving.ParseService.
type mockParseService struct {
	outcomes map[string]driving.ParseOutcome
	paths    []string
	opts     driving.ParseOptions
	workers  int
}

func (m *mockParseService) ParseFile(_ context.Context, path string, opts driving.ParseOptions) (*domain.Record, error) {
	m.opts = opts
	o := m.outcomes[path]
	return o.Record, o.Err
}

func (m *mockParseService) ParseBytes(
	_ context.Context,
	_ string,
	_ []byte,
	_ driving.ParseOptions,
) (*domain.Record, error) {
	return nil, domain.ErrInvalidInput
}

func (m *mockParseService) ParseFiles(
	_ context.Context,
	paths []string,
	opts driving.ParseOptions,
	workers int,
) []driving.ParseOutcome {
	m.paths, m.opts, m.workers = paths, opts, workers
	out := make([]driving.ParseOutcome, 0, len(paths))
	for _, p := range paths {
		o, ok := m.outcomes[p]
		if !ok {
			o = driving.ParseOutcome{Err: fmt.Errorf("open %s: %w", p, domain.ErrNotFound)}
		}
		o.Path = p
		out = append(out, o)
	}
	return out
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records   map[string]*domain.Record
	list      []domain.RecordSummary
	filter    domain.RecordFilter
	customers []domain.CustomerSummary
	limit     int
	stats     *domain.StoreStats
	deleted   []string
	published []string
	err       error
}

func (m *mockRecordService) List(_ context.Context, f domain.RecordFilter) ([]domain.RecordSummary, error) {
	m.filter = f
	return m.list, m.err
}

func (m *mockRecordService) Get(_ context.Context, id string) (*domain.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (m *mockRecordService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRecordService) Publish(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, id)
	return nil
}

func (m *mockRecordService) Customers(_ context.Context, limit int) ([]domain.CustomerSummary, error) {
	m.limit = limit
	return m.customers, m.err
}

func (m *mockRecordService) Stats(context.Context) (*domain.StoreStats, error) {
	return m.stats, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values map[string]any
	setErr error
}

func (m *mockSettingsService) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Path() string {
	return "/home/sales/.erpdoc/config.toml"
}

func ptr(v float64) *float64 { return &v }

// sampleRecord is a stored quotation with two items.
func sampleRecord() *domain.Record {
	return &domain.Record{
		ID:       "6f1c2a9e-0000-4000-8000-000000000001",
		Filename: "QT6801234.xml",
		Form:     domain.FormMarkup,
		SHA256:   "abc123",
		Result: domain.ParseResult{
			Form: domain.FormMarkup,
			Meta: domain.DocumentMeta{
				Type:         domain.DocQuotation,
				Number:       "QT6801234",
				CustomerCode: "CU00123",
				CustomerName: "บริษัท ทดสอบ จำกัด",
				AddressLine1: "99 ถนนสุขุมวิท",
				Date:         "05/01/68",
				ValidDays:    30,
			},
			Items: []domain.LineItem{
				{LineNumber: 1, ProductCode: "P-001", Description: "Widget", FullDescription: "Widget (blue)",
					Quantity: 10, Unit: "PCS", UnitPrice: 500, Amount: 5000, Remarks: []string{"blue"}},
				{LineNumber: 2, ProductCode: "P-002", Description: "Gadget", FullDescription: "Gadget",
					Quantity: 1, Unit: "SET", UnitPrice: 1000, Amount: 1000},
			},
			Summary: domain.FinancialSummary{
				Subtotal:   ptr(6000),
				VATPercent: ptr(7),
				VATAmount:  ptr(420),
				Total:      ptr(6420),
			},
			Success:       true,
			Diagnostics:   []domain.Diagnostic{},
			ParserVersion: domain.ParserVersion,
		},
		CreatedAt: time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC),
	}
}

// useServices installs mocks for one test and restores the previous ports.
func useServices(t *testing.T, s *Services) {
	t.Helper()
	prevParse, prevRecords, prevSettings, prevWatch := parseService, recordService, settingsService, watchConfig
	setServices(s)
	t.Cleanup(func() {
		parseService, recordService, settingsService, watchConfig = prevParse, prevRecords, prevSettings, prevWatch
		closeServices = nil
	})
}

// execute runs the root command with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag defaults; cobra keeps values between executions.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
