// Package plaintext provides a Tokenizer for text recovered from PDFs.
// Every physical line is one row; columns are separated by tabs or runs of
// two or more spaces, which is how the PDF text extractor marks wide gaps.
package plaintext

import (
	"context"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/normalisers/text"
)

// Ensure Normaliser implements the interface.
var _ driven.Tokenizer = (*Normaliser)(nil)

// Normaliser tokenizes plain text.
type Normaliser struct{}

// New creates a new plain text tokenizer.
func New() *Normaliser {
	return &Normaliser{}
}

// Form returns domain.FormPlainText.
func (n *Normaliser) Form() domain.Form {
	return domain.FormPlainText
}

// Tokenize splits the text into one row per non-blank line.
func (n *Normaliser) Tokenize(_ context.Context, raw *domain.RawInput) (*driven.TokenizeResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	body := strings.ToValidUTF8(string(raw.Data), "")
	return &driven.TokenizeResult{Rows: Rows(body), Encoding: "utf-8"}, nil
}

// Rows converts text into rows of String cells.
func Rows(body string) []domain.Row {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	var rows []domain.Row
	for _, line := range strings.Split(body, "\n") {
		cols := text.SplitColumns(line)
		if len(cols) == 0 {
			continue
		}
		rows = append(rows, domain.StringRow(len(rows), cols...))
	}
	return rows
}
