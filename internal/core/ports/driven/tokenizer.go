package driven

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// Tokenizer converts one document form into rows of cells.
// Each tokenizer handles exactly one domain.Form.
type Tokenizer interface {
	// Form returns the form this tokenizer reads.
	Form() domain.Form

	// Tokenize cleans the input and splits it into rows.
	// Rows with no content are dropped. Encoding problems are reported
	// as errors wrapping domain.ErrEncoding.
	Tokenize(ctx context.Context, raw *domain.RawInput) (*TokenizeResult, error)
}

// TokenizeResult contains the output of tokenization.
type TokenizeResult struct {
	// Rows are the retained rows in document order.
	Rows []domain.Row

	// Encoding names the character set the input was decoded from.
	Encoding string
}

// TokenizerRegistry selects the tokenizer for a form.
type TokenizerRegistry interface {
	// Tokenize dispatches to the tokenizer registered for raw.Form.
	Tokenize(ctx context.Context, raw *domain.RawInput) (*TokenizeResult, error)

	// Register adds a tokenizer, replacing any previous one for its form.
	Register(tokenizer Tokenizer)

	// Forms returns the forms that can be tokenized.
	Forms() []domain.Form
}
