// Package fields implements the field extraction stage: a single ordered
// pass of recognizers over every row, followed by customer name and
// address resolution keyed off the customer-code row.
package fields

import (
	"context"
	"regexp"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// Name is the registry name of the stage.
const Name = "fields"

// Ensure Stage implements the interface.
var _ driven.Stage = (*Stage)(nil)

// Stage populates DocumentMeta.
type Stage struct {
	recognizers []Recognizer
}

// New creates the field stage with the default recognizers.
func New() *Stage {
	return &Stage{recognizers: Recognizers()}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return Name
}

// Apply scans every row once and resolves the customer block.
func (s *Stage) Apply(_ context.Context, ex *domain.Extraction) error {
	markup := ex.Form == domain.FormMarkup
	for _, row := range ex.Rows {
		scan := &Scan{Row: row, Markup: markup}
		for _, r := range s.recognizers {
			for _, c := range r.Detect(scan) {
				if r.Assign(ex, c) {
					logger.Debug("fields: %s = %q (row %d)", r.Field, c.Value, c.Row)
				}
			}
		}
	}

	if markup {
		resolveCustomerBlock(ex)
	} else {
		resolveCustomerLines(ex)
	}

	var missing []string
	if ex.Meta.Number == "" {
		missing = append(missing, "document number")
	}
	if ex.Meta.CustomerCode == "" {
		missing = append(missing, "customer code")
	}
	if len(missing) > 0 {
		ex.Diagnose(domain.KindPartial, Name, "not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolveCustomerBlock reads name and address from the rows below the
// customer code: the next row's second column is the name, the two rows
// after it are the address lines.
func resolveCustomerBlock(ex *domain.Extraction) {
	at := ex.CustomerRow
	if at == domain.NoRow {
		return
	}

	name := cellAt(ex.Rows, at+1, 1)
	if name == "" || isLabel(name) {
		name = afterCode(ex.Rows[at], ex.Meta.CustomerCode)
	}
	domain.SetOnce(&ex.Meta.CustomerName, name)

	// The address block never extends into the item table.
	for i := at + 2; i <= at+3 && i < len(ex.Rows); i++ {
		if lexicon.IsHeader(ex.Rows[i].Text()) {
			return
		}
		addr := cellAt(ex.Rows, i, 1)
		if i == at+2 {
			domain.SetOnce(&ex.Meta.AddressLine1, addr)
		} else if !lexicon.ContainsAny(addr, contactLabels...) {
			domain.SetOnce(&ex.Meta.AddressLine2, addr)
		}
	}
}

func cellAt(rows []domain.Row, row, col int) string {
	if row < 0 || row >= len(rows) {
		return ""
	}
	return strings.TrimSpace(rows[row].Cell(col))
}

// afterCode returns the first non-empty cell following the customer code.
func afterCode(row domain.Row, code string) string {
	seen := false
	for _, c := range row.Cells {
		v := strings.TrimSpace(c.Value)
		if seen && v != "" {
			return v
		}
		if v == code {
			seen = true
		}
	}
	return ""
}

var (
	companyMarkers = []string{"บริษัท", "บจก", "บมจ", "ห้างหุ้นส่วน", "หจก", "จำกัด", "co.,ltd", "company"}
	fieldLabels    = []string{
		"วันที่", "ติดต่อ", "เงื่อนไข", "พนักงานขาย", "ยืนราคา", "ใบเสนอราคา", "ใบสั่งขาย",
		"เลขประจำตัว", "ผู้เสียภาษี",
	}
	customerPrefix = regexp.MustCompile(`^(?:ชื่อลูกค้า|ลูกค้า|customer|ชื่อ)\s*:?\s*`)
)

func isLabel(s string) bool {
	return lexicon.ContainsAny(s, fieldLabels...)
}

// resolveCustomerLines finds the customer on line forms: the first company
// line not naming the issuer, followed by up to two address lines that
// precede the item table.
func resolveCustomerLines(ex *domain.Extraction) {
	if ex.Meta.CustomerName != "" {
		return
	}
	for i, row := range ex.Rows {
		text := row.Text()
		if lexicon.IsHeader(text) {
			return
		}
		if !lexicon.ContainsAny(text, companyMarkers...) || lexicon.ContainsAny(text, ex.Config.IssuerNames...) {
			continue
		}

		name := lexicon.CustomerToken.ReplaceAllString(text, "")
		name = lexicon.DocumentToken.ReplaceAllString(name, "")
		name = customerPrefix.ReplaceAllString(strings.TrimSpace(name), "")
		name = strings.Join(strings.Fields(name), " ")
		if !domain.SetOnce(&ex.Meta.CustomerName, name) {
			continue
		}

		addr := []*string{&ex.Meta.AddressLine1, &ex.Meta.AddressLine2}
		for j := i + 1; j < len(ex.Rows) && len(addr) > 0; j++ {
			line := ex.Rows[j].Text()
			if lexicon.IsHeader(line) || isLabel(line) || lexicon.DocumentToken.MatchString(line) ||
				lexicon.CustomerToken.MatchString(line) || dateToken.MatchString(line) {
				break
			}
			domain.SetOnce(addr[0], line)
			addr = addr[1:]
		}
		return
	}
}
