package domain

import "strings"

// CellType is the declared data type of a markup cell.
type CellType string

const (
	CellString   CellType = "String"
	CellNumber   CellType = "Number"
	CellDateTime CellType = "DateTime"
)

// ParseCellType maps an ss:Type attribute to a CellType.
// Unknown types read as strings.
func ParseCellType(s string) CellType {
	switch CellType(s) {
	case CellNumber:
		return CellNumber
	case CellDateTime:
		return CellDateTime
	default:
		return CellString
	}
}

// Cell is one positional value inside a Row.
type Cell struct {
	Type  CellType `json:"type"`
	Value string   `json:"value"`
}

// Row is an ordered sequence of cells. Position encodes the column.
type Row struct {
	// Index is the zero-based position of the row among retained rows.
	Index int `json:"index"`

	// Cells holds the row's values; gaps are filled with empty strings.
	Cells []Cell `json:"cells"`
}

// Cell returns the value at column i, or "" when out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].Value
}

// Len returns the number of cells in the row.
func (r Row) Len() int {
	return len(r.Cells)
}

// Last returns the value of the last cell.
func (r Row) Last() string {
	return r.Cell(len(r.Cells) - 1)
}

// IsEmpty reports whether every cell is blank.
func (r Row) IsEmpty() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

// Text joins the non-empty cell values with single spaces.
// Line forms keep their whole line in Text.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if v := strings.TrimSpace(c.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// StringRow builds a row of String cells from plain values.
func StringRow(index int, values ...string) Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Type: CellString, Value: v}
	}
	return Row{Index: index, Cells: cells}
}
