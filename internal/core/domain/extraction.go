package domain

// NoRow marks an unresolved row position.
const NoRow = -1

// Extraction is the mutable workspace shared by the stages of one engine
// call. It is created per document and never reused.
type Extraction struct {
	Form   Form
	Rows   []Row
	Config EngineConfig

	Meta    DocumentMeta
	Items   []LineItem
	Summary FinancialSummary

	// CustomerRow is the row holding the customer code.
	CustomerRow int

	// HeaderRow and TableEnd bound the item table (header inclusive,
	// end exclusive). Both are NoRow when no table was located.
	HeaderRow int
	TableEnd  int

	// Stats and Success are filled by the assembler.
	Stats   Stats
	Success bool

	Diagnostics []Diagnostic
}

// NewExtraction prepares a workspace for the given rows.
func NewExtraction(form Form, rows []Row, cfg EngineConfig) *Extraction {
	return &Extraction{
		Form:        form,
		Rows:        rows,
		Config:      cfg,
		Meta:        DocumentMeta{Type: DocUnknown},
		Items:       []LineItem{},
		CustomerRow: NoRow,
		HeaderRow:   NoRow,
		TableEnd:    NoRow,
	}
}

// HasTable reports whether a header row was located.
func (e *Extraction) HasTable() bool {
	return e.HeaderRow != NoRow
}

// Diagnose appends a diagnostic.
func (e *Extraction) Diagnose(kind DiagnosticKind, stage, format string, args ...any) {
	e.Diagnostics = append(e.Diagnostics, NewDiagnostic(kind, stage, format, args...))
}

// SetOnce assigns v to *dst only when *dst is still empty and v is not.
// It reports whether the assignment happened.
func SetOnce(dst *string, v string) bool {
	if *dst != "" || v == "" {
		return false
	}
	*dst = v
	return true
}

// SetDocument fixes the document type and number on first call.
func (e *Extraction) SetDocument(t DocType, number string) bool {
	if e.Meta.Number != "" || number == "" {
		return false
	}
	e.Meta.Type = t
	e.Meta.Number = number
	return true
}

// Result copies the workspace into a ParseResult.
func (e *Extraction) Result() ParseResult {
	items := e.Items
	if items == nil {
		items = []LineItem{}
	}
	diags := e.Diagnostics
	if diags == nil {
		diags = []Diagnostic{}
	}
	return ParseResult{
		Form:          e.Form,
		Meta:          e.Meta,
		Items:         items,
		Summary:       e.Summary,
		Stats:         e.Stats,
		Success:       e.Success,
		Diagnostics:   diags,
		ParserVersion: ParserVersion,
	}
}
