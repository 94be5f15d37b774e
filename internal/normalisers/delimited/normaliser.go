package delimited

import (
	"context"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/normalisers/text"
)

// Ensure Normaliser implements the interface.
var _ driven.Tokenizer = (*Normaliser)(nil)

// Normaliser tokenizes delimited exports.
type Normaliser struct {
	encodings []string
	delimiter rune
}

// Option configures the tokenizer.
type Option func(*Normaliser)

// WithEncodings sets the ordered list of encodings to try.
func WithEncodings(names ...string) Option {
	return func(n *Normaliser) {
		if len(names) > 0 {
			n.encodings = names
		}
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(n *Normaliser) {
		if r != 0 {
			n.delimiter = r
		}
	}
}

// New creates a delimited tokenizer using the default engine encodings.
func New(opts ...Option) *Normaliser {
	cfg := domain.DefaultEngineConfig()
	n := &Normaliser{encodings: cfg.Encodings, delimiter: cfg.Delimiter}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Form returns domain.FormDelimited.
func (n *Normaliser) Form() domain.Form {
	return domain.FormDelimited
}

// Tokenize decodes the input and splits every line into cleaned fields.
func (n *Normaliser) Tokenize(_ context.Context, raw *domain.RawInput) (*driven.TokenizeResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	decoded, encoding, err := Decode(raw.Data, n.encodings)
	if err != nil {
		return nil, err
	}

	decoded = strings.ReplaceAll(decoded, "\r\n", "\n")
	var rows []domain.Row
	for _, line := range strings.Split(decoded, "\n") {
		fields := SplitFields(line, n.delimiter)
		cells := make([]domain.Cell, 0, len(fields))
		for _, f := range fields {
			cells = append(cells, domain.Cell{Type: domain.CellString, Value: text.Clean(f)})
		}
		for len(cells) > 0 && cells[len(cells)-1].Value == "" {
			cells = cells[:len(cells)-1]
		}

		row := domain.Row{Index: len(rows), Cells: cells}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return &driven.TokenizeResult{Rows: rows, Encoding: encoding}, nil
}

// SplitFields splits one line on delim. Double-quoted fields may contain
// the delimiter and "" escapes. A quote that never closes runs to the end
// of the line rather than swallowing following lines.
func SplitFields(line string, delim rune) []string {
	var (
		fields  []string
		field   strings.Builder
		inQuote bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuote && i+1 < len(runes) && runes[i+1] == '"':
			field.WriteRune('"')
			i++
		case r == '"' && inQuote:
			inQuote = false
		case r == '"' && strings.TrimSpace(field.String()) == "":
			field.Reset()
			inQuote = true
		case r == delim && !inQuote:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, field.String())
}
