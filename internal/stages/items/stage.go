// Package items implements the table locator and item extractor stage.
//
// The locator walks rows through SeekingHeader, InTable and Done. Inside
// the table, markup rows are read positionally against the header layout
// and line-form rows through a strict-to-loose pattern cascade whose level
// is chosen once per table. Rows that are not items may be folded into
// the preceding item as remarks.
package items

import (
	"context"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// Name is the registry name of the stage.
const Name = "items"

// Ensure Stage implements the interface.
var _ driven.Stage = (*Stage)(nil)

type state int

const (
	seekingHeader state = iota
	inTable
	done
)

// Option configures the stage.
type Option func(*Stage)

// WithRemarks enables or disables remark folding.
func WithRemarks(enabled bool) Option {
	return func(s *Stage) {
		s.foldRemarks = enabled
	}
}

// Stage extracts line items.
type Stage struct {
	foldRemarks bool
}

// New creates the item stage. Remark folding is on by default.
func New(opts ...Option) *Stage {
	s := &Stage{foldRemarks: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return Name
}

// Apply locates the table and extracts items into ex.Items.
func (s *Stage) Apply(_ context.Context, ex *domain.Extraction) error {
	locate(ex)

	var cands []candidate
	switch {
	case ex.HasTable():
		cands = s.extractTable(ex)
	case ex.Form == domain.FormMarkup:
		cands = scanMarkupWithoutHeader(ex.Rows)
	default:
		cands = scanLinesWithoutHeader(ex.Rows)
	}

	ex.Items = finalize(cands)
	logger.Debug("items: %d retained (header row %d, end row %d)", len(ex.Items), ex.HeaderRow, ex.TableEnd)
	return nil
}

// locate runs the header/terminator state machine.
func locate(ex *domain.Extraction) {
	st := seekingHeader
	for i, row := range ex.Rows {
		switch st {
		case seekingHeader:
			if lexicon.IsHeader(row.Text()) {
				ex.HeaderRow = i
				st = inTable
			}
		case inTable:
			if isTerminator(row) {
				ex.TableEnd = i
				st = done
			}
		}
		if st == done {
			return
		}
	}
}

// isTerminator reports whether the row closes the item table: a subtotal
// label, or a cell reading just "รวม", without the grand-total label.
func isTerminator(row domain.Row) bool {
	text := row.Text()
	if strings.Contains(text, lexicon.GrandTotal) {
		return false
	}
	if lexicon.IsSubtotalRow(text) {
		return true
	}
	for _, c := range row.Cells {
		if strings.TrimSpace(c.Value) == "รวม" {
			return true
		}
	}
	return false
}

// tableRows returns the rows strictly between header and end.
func tableRows(ex *domain.Extraction) []domain.Row {
	end := ex.TableEnd
	if end == domain.NoRow {
		end = len(ex.Rows)
	}
	return ex.Rows[ex.HeaderRow+1 : end]
}

func (s *Stage) extractTable(ex *domain.Extraction) []candidate {
	rows := tableRows(ex)
	markup := ex.Form == domain.FormMarkup

	var (
		l       layout
		pattern = -1
	)
	if markup {
		l = headerLayout(ex.Rows[ex.HeaderRow])
	} else {
		pattern = selectPattern(rows)
		if pattern < 0 {
			return nil
		}
		logger.Debug("items: using %s line pattern", cascade[pattern].name)
	}

	var (
		cands []candidate
		last  = -1
	)
	for _, row := range rows {
		if isPageHeader(ex, row) {
			last = -1
			continue
		}

		var (
			c  candidate
			ok bool
		)
		if markup {
			c.item, ok = readMarkupRow(l, row)
			c.sourceLine = row.Index
		} else {
			c, ok = matchLine(cascade[pattern], row)
		}

		if ok && acceptable(c.item) {
			cands = append(cands, c)
			last = len(cands) - 1
			continue
		}
		if ok {
			logger.Debug("items: row %d rejected: %q", row.Index, row.Text())
			last = -1
			continue
		}

		if !s.foldRemarks || last < 0 {
			continue
		}
		remark := cleanRemark(row.Text())
		if !validRemark(remark) {
			last = -1
			continue
		}
		cands[last].item.Remarks = append(cands[last].item.Remarks, remark)
	}
	return cands
}

// isPageHeader reports rows that repeat the document number inside the
// table, as multi-page exports do at every page break.
func isPageHeader(ex *domain.Extraction, row domain.Row) bool {
	text := row.Text()
	if ex.Meta.Number != "" && strings.Contains(text, ex.Meta.Number) {
		return true
	}
	return lexicon.IsHeader(text)
}

// acceptable enforces the item invariants.
func acceptable(item domain.LineItem) bool {
	if item.Quantity <= 0 || item.UnitPrice <= 0 || item.Amount <= 0 {
		return false
	}
	if item.Description == "" && item.ProductCode == "" {
		return false
	}
	return !lexicon.IsSummaryText(item.Description) && !lexicon.IsSummaryText(item.ProductCode)
}

// scanLinesWithoutHeader applies the cascade to every row when no header
// was found. No remarks are folded.
func scanLinesWithoutHeader(rows []domain.Row) []candidate {
	pattern := selectPattern(rows)
	if pattern < 0 {
		return nil
	}
	var cands []candidate
	for _, row := range rows {
		if c, ok := matchLine(cascade[pattern], row); ok && acceptable(c.item) {
			cands = append(cands, c)
		}
	}
	return cands
}

// scanMarkupWithoutHeader reads headerless markup rows as lines through
// the same cascade, then falls back to the trailing-numbers reading for
// rows no pattern matches.
func scanMarkupWithoutHeader(rows []domain.Row) []candidate {
	pattern := selectPattern(rows)
	var cands []candidate
	for _, row := range rows {
		if pattern >= 0 {
			if c, ok := matchLine(cascade[pattern], row); ok && acceptable(c.item) {
				c.sourceLine = row.Index
				cands = append(cands, c)
				continue
			}
		}
		if item, ok := readLooseMarkupRow(row); ok && acceptable(item) {
			cands = append(cands, candidate{sourceLine: row.Index, item: item})
		}
	}
	return cands
}

// finalize drops duplicates, composes full descriptions and numbers the
// retained items densely from 1.
func finalize(cands []candidate) []domain.LineItem {
	type key struct {
		desc   string
		amount float64
	}
	seenLine := make(map[int]bool)
	seenPair := make(map[key]bool)

	items := make([]domain.LineItem, 0, len(cands))
	for _, c := range cands {
		k := key{desc: c.item.Description, amount: c.item.Amount}
		if seenLine[c.sourceLine] || seenPair[k] {
			logger.Debug("items: duplicate dropped: %q", c.item.Description)
			continue
		}
		seenLine[c.sourceLine] = true
		seenPair[k] = true

		item := c.item
		item.LineNumber = len(items) + 1
		item.FullDescription = item.ComposeDescription()
		items = append(items, item)
	}
	return items
}
