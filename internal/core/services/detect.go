package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// sniffLimit bounds how much of a payload is inspected for form detection.
const sniffLimit = 4096

var (
	pdfMagic       = []byte("%PDF-")
	markupSniffers = [][]byte{[]byte("<Workbook"), []byte("<ss:Workbook"), []byte("<Row")}
)

// Detection is the outcome of form detection.
type Detection struct {
	Form domain.Form

	// PDF is set when the payload must go through text extraction first.
	PDF bool
}

// DetectForm chooses the form from content first, then the extension.
// A .txt file whose first line has at least two delimiters is delimited.
func DetectForm(filename string, data []byte, delimiter rune) (Detection, error) {
	head := data
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")

	switch {
	case bytes.HasPrefix(trimmed, pdfMagic):
		return Detection{Form: domain.FormPlainText, PDF: true}, nil
	case containsAny(head, markupSniffers):
		return Detection{Form: domain.FormMarkup}, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xml":
		return Detection{Form: domain.FormMarkup}, nil
	case ".csv":
		return Detection{Form: domain.FormDelimited}, nil
	case ".pdf":
		return Detection{Form: domain.FormPlainText, PDF: true}, nil
	case ".txt":
		line, _, _ := bytes.Cut(trimmed, []byte("\n"))
		if bytes.Count(line, []byte(string(delimiter))) >= 2 {
			return Detection{Form: domain.FormDelimited}, nil
		}
		return Detection{Form: domain.FormPlainText}, nil
	}
	return Detection{}, fmt.Errorf("%w: cannot detect form of %q", domain.ErrUnsupportedForm, filename)
}

func containsAny(b []byte, needles [][]byte) bool {
	for _, n := range needles {
		if bytes.Contains(b, n) {
			return true
		}
	}
	return false
}
