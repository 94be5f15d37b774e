package domain

import (
	"fmt"
	"strings"
)

// Form identifies which export layout a document arrived in.
type Form string

const (
	// FormUnknown is used before detection has run.
	FormUnknown Form = ""

	// FormMarkup is the spreadsheet XML export (Workbook/Row/Cell).
	FormMarkup Form = "markup"

	// FormDelimited is the quoted, comma separated text export.
	FormDelimited Form = "delimited"

	// FormPlainText is text recovered from a PDF.
	FormPlainText Form = "plain-text"
)

// Forms lists every concrete form in selection order.
func Forms() []Form {
	return []Form{FormMarkup, FormDelimited, FormPlainText}
}

// ParseForm converts user input such as "xml", "csv" or "pdf" into a Form.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markup", "xml", "spreadsheetml":
		return FormMarkup, nil
	case "delimited", "csv":
		return FormDelimited, nil
	case "plain-text", "plaintext", "text", "txt", "pdf":
		return FormPlainText, nil
	default:
		return FormUnknown, fmt.Errorf("%w: %q", ErrUnsupportedForm, s)
	}
}

// RawInput is the payload handed to the engine.
// It is never modified once constructed.
type RawInput struct {
	// Form selects the tokenizer.
	Form Form

	// Data is the document body. Delimited input is in its original
	// 8-bit encoding; markup and plain text are UTF-8.
	Data []byte

	// Filename is informational and only used in diagnostics.
	Filename string
}
