package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// Ensure ParseService implements the interface.
var _ driving.ParseService = (*ParseService)(nil)

// DefaultWorkers is the parse concurrency used when none is given.
const DefaultWorkers = 4

// ParseService wraps the engine with intake, persistence and delivery.
type ParseService struct {
	engine    driving.Extractor
	text      driven.TextExtractor
	store     driven.ResultStore
	publisher driven.Publisher
	delimiter rune
	now       func() time.Time
}

// NewParseService creates a parse service. text, store and publisher may
// be nil; operations that need them then fail with domain.ErrNotConfigured.
func NewParseService(
	engine driving.Extractor,
	text driven.TextExtractor,
	store driven.ResultStore,
	publisher driven.Publisher,
	cfg domain.EngineConfig,
) *ParseService {
	return &ParseService{
		engine:    engine,
		text:      text,
		store:     store,
		publisher: publisher,
		delimiter: cfg.Delimiter,
		now:       time.Now,
	}
}

// ParseFile reads path and parses it.
func (s *ParseService) ParseFile(ctx context.Context, path string, opts driving.ParseOptions) (*domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ParseBytes(ctx, filepath.Base(path), data, opts)
}

// ParseBytes parses an in-memory payload and optionally stores and
// publishes the record.
func (s *ParseService) ParseBytes(
	ctx context.Context,
	filename string,
	data []byte,
	opts driving.ParseOptions,
) (*domain.Record, error) {
	det := Detection{Form: opts.Form}
	if det.Form == domain.FormUnknown {
		var err error
		if det, err = DetectForm(filename, data, s.delimiter); err != nil {
			return nil, err
		}
	} else if det.Form == domain.FormPlainText && bytes.HasPrefix(data, pdfMagic) {
		det.PDF = true
	}

	digest := sha256.Sum256(data)
	body := data
	if det.PDF {
		if s.text == nil {
			return nil, fmt.Errorf("pdf text extraction: %w", domain.ErrNotConfigured)
		}
		text, err := s.text.Extract(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("extract text from %s: %w", filename, err)
		}
		body = []byte(text)
	}

	result := s.engine.Extract(ctx, &domain.RawInput{Form: det.Form, Data: body, Filename: filename})
	rec := &domain.Record{
		ID:        uuid.NewString(),
		Filename:  filename,
		Form:      det.Form,
		SHA256:    hex.EncodeToString(digest[:]),
		Result:    result,
		CreatedAt: s.now().UTC(),
	}

	if opts.Store {
		if s.store == nil {
			return rec, fmt.Errorf("store record: %w", domain.ErrNotConfigured)
		}
		if err := s.store.Save(ctx, rec); err != nil {
			return rec, fmt.Errorf("store record: %w", err)
		}
	}
	if opts.Publish {
		if s.publisher == nil {
			return rec, fmt.Errorf("publish record: %w", domain.ErrNotConfigured)
		}
		if err := s.publisher.Publish(ctx, rec); err != nil {
			return rec, fmt.Errorf("publish record: %w", err)
		}
	}
	return rec, nil
}

// ParseFiles parses paths with at most workers files in flight. Outcomes
// are returned in input order; a failed file never stops the others.
func (s *ParseService) ParseFiles(
	ctx context.Context,
	paths []string,
	opts driving.ParseOptions,
	workers int,
) []driving.ParseOutcome {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	out := make([]driving.ParseOutcome, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		out[i].Path = path
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			rec, err := s.ParseFile(ctx, path, opts)
			if err != nil {
				logger.Warn("parse %s: %v", path, err)
			}
			out[i].Record, out[i].Err = rec, err
			return nil
		})
	}
	_ = g.Wait()
	return out
}
