package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/adapters/driven/storage/memory"
	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

func okResult() domain.ParseResult {
	return domain.ParseResult{
		Meta:        domain.DocumentMeta{Type: domain.DocQuotation, Number: "QT6800001", CustomerCode: "CU1"},
		Items:       []domain.LineItem{},
		Success:     true,
		Diagnostics: []domain.Diagnostic{},
	}
}

func TestParseService_ParseBytes(t *testing.T) {
	engine := &mockExtractor{result: okResult()}
	store := memory.NewResultStore()
	pub := &mockPublisher{}
	svc := NewParseService(engine, nil, store, pub, domain.DefaultEngineConfig())
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	ctx := context.Background()

	rec, err := svc.ParseBytes(ctx, "qt.xml", []byte("<Workbook/>"), driving.ParseOptions{Store: true, Publish: true})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "qt.xml", rec.Filename)
	assert.Equal(t, domain.FormMarkup, rec.Form)
	// sha256("<Workbook/>")
	assert.Len(t, rec.SHA256, 64)
	assert.Equal(t, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC), rec.CreatedAt)
	assert.Equal(t, "QT6800001", rec.Result.Meta.Number)

	stored, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
	assert.Equal(t, []string{rec.ID}, pub.published)

	calls := engine.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.FormMarkup, calls[0].Form)
	assert.Equal(t, "qt.xml", calls[0].Filename)
}

func TestParseService_ParseBytes_ForcedForm(t *testing.T) {
	engine := &mockExtractor{result: okResult()}
	svc := NewParseService(engine, nil, nil, nil, domain.DefaultEngineConfig())

	rec, err := svc.ParseBytes(context.Background(), "weird.bin", []byte("a,b,c"), driving.ParseOptions{Form: domain.FormDelimited})
	require.NoError(t, err)
	assert.Equal(t, domain.FormDelimited, rec.Form)
}

func TestParseService_ParseBytes_PDF(t *testing.T) {
	engine := &mockExtractor{result: okResult()}
	text := &mockTextExtractor{text: "ใบเสนอราคา QT6800001"}
	svc := NewParseService(engine, text, nil, nil, domain.DefaultEngineConfig())
	pdf := []byte("%PDF-1.4 binary")

	rec, err := svc.ParseBytes(context.Background(), "qt.pdf", pdf, driving.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.FormPlainText, rec.Form)
	require.Len(t, text.seen, 1)
	assert.Equal(t, pdf, text.seen[0])
	calls := engine.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ใบเสนอราคา QT6800001", string(calls[0].Data))

	t.Run("digest covers original bytes", func(t *testing.T) {
		other, err := svc.ParseBytes(context.Background(), "qt.pdf", pdf, driving.ParseOptions{Form: domain.FormPlainText})
		require.NoError(t, err)
		assert.Equal(t, rec.SHA256, other.SHA256)
		assert.Len(t, text.seen, 2, "forced plain-text still extracts pdf text")
	})
}

func TestParseService_ParseBytes_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		svc     *ParseService
		file    string
		data    string
		opts    driving.ParseOptions
		wantErr error
		wantRec bool
	}{
		{
			name:    "unsupported form",
			svc:     NewParseService(&mockExtractor{}, nil, nil, nil, domain.DefaultEngineConfig()),
			file:    "a.docx",
			data:    "PK",
			wantErr: domain.ErrUnsupportedForm,
		},
		{
			name:    "pdf without extractor",
			svc:     NewParseService(&mockExtractor{}, nil, nil, nil, domain.DefaultEngineConfig()),
			file:    "a.pdf",
			data:    "%PDF-1.4",
			wantErr: domain.ErrNotConfigured,
		},
		{
			name:    "pdf extraction fails",
			svc:     NewParseService(&mockExtractor{}, &mockTextExtractor{err: boom}, nil, nil, domain.DefaultEngineConfig()),
			file:    "a.pdf",
			data:    "%PDF-1.4",
			wantErr: boom,
		},
		{
			name:    "store not configured",
			svc:     NewParseService(&mockExtractor{}, nil, nil, nil, domain.DefaultEngineConfig()),
			file:    "a.csv",
			data:    "a,b",
			opts:    driving.ParseOptions{Store: true},
			wantErr: domain.ErrNotConfigured,
			wantRec: true,
		},
		{
			name:    "store fails",
			svc:     NewParseService(&mockExtractor{}, nil, failingStore{err: boom}, nil, domain.DefaultEngineConfig()),
			file:    "a.csv",
			data:    "a,b",
			opts:    driving.ParseOptions{Store: true},
			wantErr: boom,
			wantRec: true,
		},
		{
			name:    "publisher not configured",
			svc:     NewParseService(&mockExtractor{}, nil, nil, nil, domain.DefaultEngineConfig()),
			file:    "a.csv",
			data:    "a,b",
			opts:    driving.ParseOptions{Publish: true},
			wantErr: domain.ErrNotConfigured,
			wantRec: true,
		},
		{
			name:    "publish rejected",
			svc:     NewParseService(&mockExtractor{}, nil, nil, &mockPublisher{err: domain.ErrPublish}, domain.DefaultEngineConfig()),
			file:    "a.csv",
			data:    "a,b",
			opts:    driving.ParseOptions{Publish: true},
			wantErr: domain.ErrPublish,
			wantRec: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.svc.ParseBytes(context.Background(), tt.file, []byte(tt.data), tt.opts)

			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantRec {
				assert.NotNil(t, rec, "the parsed record is returned alongside delivery errors")
			} else {
				assert.Nil(t, rec)
			}
		})
	}
}

func TestParseService_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "so.csv")
	require.NoError(t, os.WriteFile(path, []byte(`"SO6800001","CU1"`), 0600))

	svc := NewParseService(&mockExtractor{result: okResult()}, nil, nil, nil, domain.DefaultEngineConfig())

	rec, err := svc.ParseFile(context.Background(), path, driving.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "so.csv", rec.Filename)
	assert.Equal(t, domain.FormDelimited, rec.Form)

	_, err = svc.ParseFile(context.Background(), filepath.Join(dir, "missing.csv"), driving.ParseOptions{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseService_ParseFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.csv", "b.xml", "c.docx", "d.csv", "e.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x,y"), 0600))
		paths = append(paths, p)
	}

	engine := &mockExtractor{result: okResult()}
	svc := NewParseService(engine, nil, nil, nil, domain.DefaultEngineConfig())

	out := svc.ParseFiles(context.Background(), paths, driving.ParseOptions{}, 2)

	require.Len(t, out, len(paths))
	for i, o := range out {
		assert.Equal(t, paths[i], o.Path)
	}
	assert.True(t, errors.Is(out[2].Err, domain.ErrUnsupportedForm))
	assert.Equal(t, domain.FormMarkup, out[1].Record.Form)
	assert.Len(t, engine.calls(), 4)
}

func TestParseService_ParseFiles_WorkerLimit(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 8 {
		p := filepath.Join(dir, fmt.Sprintf("so%d.csv", i))
		require.NoError(t, os.WriteFile(p, []byte("x,y"), 0600))
		paths = append(paths, p)
	}
	paths = append(paths[:3], append([]string{filepath.Join(dir, "missing.csv")}, paths[3:]...)...)

	engine := &gatedExtractor{}
	svc := NewParseService(engine, nil, nil, nil, domain.DefaultEngineConfig())

	out := svc.ParseFiles(context.Background(), paths, driving.ParseOptions{}, 2)

	require.Len(t, out, 9)
	assert.True(t, errors.Is(out[3].Err, os.ErrNotExist))
	for i, o := range out {
		if i == 3 {
			continue
		}
		assert.NoError(t, o.Err, o.Path)
		require.NotNil(t, o.Record)
	}
	assert.Equal(t, 8, engine.total)
	assert.LessOrEqual(t, engine.peak, 2)
}

func TestParseService_ParseFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewParseService(&mockExtractor{}, nil, nil, nil, domain.DefaultEngineConfig())
	out := svc.ParseFiles(ctx, []string{"a.csv", "b.csv"}, driving.ParseOptions{}, 0)

	require.Len(t, out, 2)
	for _, o := range out {
		assert.Error(t, o.Err)
	}
}
