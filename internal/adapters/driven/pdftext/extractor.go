// Package pdftext recovers row-ordered text from PDF files for the
// plain-text form.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// gapRatio is the horizontal gap, as a fraction of the font size, above
// which two text runs on a row are separated by a space.
const gapRatio = 0.25

// Extractor reads PDF text page by page, one line per text row.
type Extractor struct{}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every page. Pages are separated by a blank
// line. Malformed files are reported as errors wrapping
// domain.ErrInvalidInput.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		for _, row := range rows {
			if line := joinRow(row.Content); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	logger.Debug("pdftext: %d pages, %d bytes of text", pages, b.Len())
	return b.String(), nil
}

// joinRow concatenates the runs of one row. Runs that touch are glued
// together so Thai words split by the PDF producer stay whole.
func joinRow(runs []pdf.Text) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			prev := runs[i-1]
			if r.X-(prev.X+prev.W) > prev.FontSize*gapRatio {
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
