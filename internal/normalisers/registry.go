package normalisers

import (
	"context"
	"fmt"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
	"github.com/pktechnic/erpdoc/internal/normalisers/delimited"
	"github.com/pktechnic/erpdoc/internal/normalisers/markup"
	"github.com/pktechnic/erpdoc/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.TokenizerRegistry = (*Registry)(nil)

// Registry maps forms to tokenizers.
type Registry struct {
	tokenizers map[domain.Form]driven.Tokenizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokenizers: make(map[domain.Form]driven.Tokenizer)}
}

// NewDefaultRegistry creates a registry with the built-in tokenizers
// configured from cfg.
func NewDefaultRegistry(cfg domain.EngineConfig) *Registry {
	r := NewRegistry()
	r.Register(markup.New())
	r.Register(delimited.New(
		delimited.WithEncodings(cfg.Encodings...),
		delimited.WithDelimiter(cfg.Delimiter),
	))
	r.Register(plaintext.New())
	return r
}

// Register adds a tokenizer, replacing any previous one for its form.
func (r *Registry) Register(tokenizer driven.Tokenizer) {
	r.tokenizers[tokenizer.Form()] = tokenizer
}

// Tokenize dispatches to the tokenizer for raw.Form.
func (r *Registry) Tokenize(ctx context.Context, raw *domain.RawInput) (*driven.TokenizeResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	tokenizer, ok := r.tokenizers[raw.Form]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoTokenizer, raw.Form)
	}

	result, err := tokenizer.Tokenize(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("tokenizing %s: %w", raw.Form, err)
	}
	logger.Debug("tokenized %s input into %d rows (%s)", raw.Form, len(result.Rows), result.Encoding)
	return result, nil
}

// Forms returns registered forms in canonical order.
func (r *Registry) Forms() []domain.Form {
	var forms []domain.Form
	for _, f := range domain.Forms() {
		if _, ok := r.tokenizers[f]; ok {
			forms = append(forms, f)
		}
	}
	return forms
}
