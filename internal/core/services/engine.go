package services

import (
	"context"
	"errors"
	"time"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.Extractor = (*Engine)(nil)

// Engine runs tokenization and the stage pipeline for one document at a
// time. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	tokenizers driven.TokenizerRegistry
	pipeline   driven.StagePipeline
	cfg        domain.EngineConfig
	now        func() time.Time
}

// NewEngine creates an engine.
func NewEngine(tokenizers driven.TokenizerRegistry, pipeline driven.StagePipeline, cfg domain.EngineConfig) *Engine {
	return &Engine{
		tokenizers: tokenizers,
		pipeline:   pipeline,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Extract parses raw into a ParseResult. It never returns an error:
// encoding problems, empty input and stage failures are reported as
// diagnostics on an unsuccessful result.
func (e *Engine) Extract(ctx context.Context, raw *domain.RawInput) domain.ParseResult {
	res := e.extract(ctx, raw)
	res.ParserVersion = domain.ParserVersion
	res.ProcessedAt = e.now().UTC()
	return res
}

func (e *Engine) extract(ctx context.Context, raw *domain.RawInput) domain.ParseResult {
	if raw == nil || len(raw.Data) == 0 {
		form := domain.FormUnknown
		if raw != nil {
			form = raw.Form
		}
		return domain.Failed(form, domain.NewDiagnostic(domain.KindStructuralAnchor, "tokenize", "empty document"))
	}

	tok, err := e.tokenizers.Tokenize(ctx, raw)
	switch {
	case errors.Is(err, domain.ErrEncoding):
		return domain.Failed(raw.Form, domain.NewDiagnostic(domain.KindEncodingFailure, "tokenize", "%v", err))
	case err != nil:
		return domain.Failed(raw.Form, domain.NewDiagnostic(domain.KindStageFailure, "tokenize", "%v", err))
	case len(tok.Rows) == 0:
		return domain.Failed(raw.Form, domain.NewDiagnostic(domain.KindStructuralAnchor, "tokenize", "no extractable rows"))
	}

	ex := domain.NewExtraction(raw.Form, tok.Rows, e.cfg)
	if err := e.pipeline.Run(ctx, ex); err != nil {
		ex.Diagnose(domain.KindStageFailure, "pipeline", "%v", err)
		ex.Success = false
	}

	res := ex.Result()
	logger.Debug("%s: %s %q, %d items, success=%t", raw.Filename, res.Meta.Type, res.Meta.Number, len(res.Items), res.Success)
	return res
}
