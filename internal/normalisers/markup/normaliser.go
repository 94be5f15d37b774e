package markup

import (
	"bytes"
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/normalisers/text"
)

// Ensure Normaliser implements the interface.
var _ driven.Tokenizer = (*Normaliser)(nil)

// Normaliser tokenizes spreadsheet XML.
type Normaliser struct{}

// New creates a new markup tokenizer.
func New() *Normaliser {
	return &Normaliser{}
}

// Form returns domain.FormMarkup.
func (n *Normaliser) Form() domain.Form {
	return domain.FormMarkup
}

// Tokenize converts the markup into rows of typed cells.
func (n *Normaliser) Tokenize(_ context.Context, raw *domain.RawInput) (*driven.TokenizeResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	body := bytes.TrimPrefix(raw.Data, []byte("\xef\xbb\xbf"))
	return &driven.TokenizeResult{
		Rows:     Rows(strings.ToValidUTF8(string(body), "")),
		Encoding: "utf-8",
	}, nil
}

// Pre-compiled regular expressions for markup parsing.
var (
	rowElement  = regexp.MustCompile(`(?s)<(?:ss:)?Row\b[^>]*?(?:/>|>(.*?)</(?:ss:)?Row>)`)
	cellElement = regexp.MustCompile(`(?s)<(?:ss:)?Cell\b([^>]*?)(?:/>|>(.*?)</(?:ss:)?Cell>)`)
	dataElement = regexp.MustCompile(`(?s)<(?:ss:)?Data\b([^>]*)>(.*?)</(?:ss:)?Data>`)
	indexAttr   = regexp.MustCompile(`ss:Index\s*=\s*"(\d+)"`)
	mergeAttr   = regexp.MustCompile(`ss:MergeAcross\s*=\s*"(\d+)"`)
	typeAttr    = regexp.MustCompile(`ss:Type\s*=\s*"([^"]*)"`)
	innerTags   = regexp.MustCompile(`<[^>]+>`)
)

// Rows tokenizes a markup document. Rows without any non-empty cell
// are dropped and the remaining rows are indexed from zero.
func Rows(body string) []domain.Row {
	var rows []domain.Row
	for _, m := range rowElement.FindAllStringSubmatch(body, -1) {
		cells := parseCells(m[1])
		row := domain.Row{Index: len(rows), Cells: cells}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// parseCells reads the cells of one row segment.
func parseCells(segment string) []domain.Cell {
	var cells []domain.Cell
	for _, m := range cellElement.FindAllStringSubmatch(segment, -1) {
		attrs, inner := m[1], m[2]

		// ss:Index is 1-based; a jump forward means blank columns were omitted.
		if idx, ok := intAttr(indexAttr, attrs); ok {
			for len(cells) < idx-1 {
				cells = append(cells, domain.Cell{Type: domain.CellString})
			}
		}

		cells = append(cells, readData(inner))

		if span, ok := intAttr(mergeAttr, attrs); ok {
			for i := 0; i < span; i++ {
				cells = append(cells, domain.Cell{Type: domain.CellString})
			}
		}
	}

	for len(cells) > 0 && cells[len(cells)-1].Value == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// readData extracts the typed payload of a cell body.
func readData(inner string) domain.Cell {
	m := dataElement.FindStringSubmatch(inner)
	if m == nil {
		return domain.Cell{Type: domain.CellString}
	}

	cellType := domain.CellString
	if t := typeAttr.FindStringSubmatch(m[1]); t != nil {
		cellType = domain.ParseCellType(t[1])
	}

	value := innerTags.ReplaceAllString(m[2], "")
	value = text.Clean(html.UnescapeString(value))
	return domain.Cell{Type: cellType, Value: value}
}

func intAttr(re *regexp.Regexp, attrs string) (int, bool) {
	m := re.FindStringSubmatch(attrs)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
