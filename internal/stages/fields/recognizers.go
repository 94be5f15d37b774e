package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// Scan is the view of one row handed to every recognizer.
type Scan struct {
	Row    domain.Row
	Markup bool
}

// Candidate is a value a recognizer found on a row.
type Candidate struct {
	Value string

	// Label is the text preceding the value, for recognizers that
	// attribute by label.
	Label string

	// Row is the index of the row the value was found on.
	Row int
}

// Recognizer pairs a predicate that finds candidate values on a row with
// a setter that stores a candidate. Setters never overwrite a field that is
// already set.
type Recognizer struct {
	Field  string
	Detect func(s *Scan) []Candidate
	Assign func(ex *domain.Extraction, c Candidate) bool
}

// Recognizers returns the field recognizers in priority order.
func Recognizers() []Recognizer {
	return []Recognizer{
		{Field: "document", Detect: detectDocument, Assign: assignDocument},
		{Field: "customer_code", Detect: detectCustomerCode, Assign: assignCustomerCode},
		{Field: "sales_person", Detect: detectSalesPerson, Assign: func(ex *domain.Extraction, c Candidate) bool {
			return domain.SetOnce(&ex.Meta.SalesPerson, c.Value)
		}},
		{Field: "po_reference", Detect: detectPO, Assign: func(ex *domain.Extraction, c Candidate) bool {
			return domain.SetOnce(&ex.Meta.POReference, c.Value)
		}},
		{Field: "payment_term", Detect: labelled(paymentLabels), Assign: func(ex *domain.Extraction, c Candidate) bool {
			return domain.SetOnce(&ex.Meta.PaymentTerm, c.Value)
		}},
		{Field: "contact_person", Detect: labelled(contactLabels), Assign: func(ex *domain.Extraction, c Candidate) bool {
			return domain.SetOnce(&ex.Meta.ContactPerson, c.Value)
		}},
		{Field: "valid_days", Detect: labelled(validityLabels), Assign: assignValidDays},
		{Field: "dates", Detect: detectDates, Assign: assignDate},
	}
}

// Pre-compiled patterns for field recognition.
var (
	salesPersonCell  = regexp.MustCompile(`^\d{4,5}-\p{Thai}+`)
	salesPersonToken = regexp.MustCompile(`\b\d{4,5}-\p{Thai}+`)
	poCell           = regexp.MustCompile(`^(?:PRPO|PO[.\-#: ])\s*\S*\d`)
	poToken          = regexp.MustCompile(`\b(?:PRPO[\w./-]*\d[\w./-]*|PO[.\-#:]\s?[\w./-]*\d[\w./-]*)`)
	dateCell         = regexp.MustCompile(`^\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}$`)
	dateToken        = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)
	firstInteger     = regexp.MustCompile(`\d+`)
)

var (
	paymentLabels  = []string{"เงื่อนไข", "ชำระเงิน"}
	contactLabels  = []string{"ติดต่อ"}
	validityLabels = []string{"ยืนราคา"}

	deliveryLabels = []string{"ส่งของ", "delivery"}
	dueLabels      = []string{"ถึงวันที่", "ครบกำหนด", "due"}
	dateLabels     = []string{"วันที่", "date"}
)

func detectDocument(s *Scan) []Candidate {
	if s.Markup {
		for _, c := range s.Row.Cells {
			if lexicon.QuotationNumber.MatchString(c.Value) || lexicon.SalesOrderNumber.MatchString(c.Value) {
				return []Candidate{{Value: c.Value, Row: s.Row.Index}}
			}
		}
		return nil
	}
	if tok := lexicon.DocumentToken.FindString(s.Row.Text()); tok != "" {
		return []Candidate{{Value: tok, Row: s.Row.Index}}
	}
	return nil
}

func assignDocument(ex *domain.Extraction, c Candidate) bool {
	switch {
	case strings.HasPrefix(c.Value, "QT"):
		return ex.SetDocument(domain.DocQuotation, c.Value)
	case strings.HasPrefix(c.Value, "SO"):
		return ex.SetDocument(domain.DocSalesOrder, c.Value)
	}
	return false
}

func detectCustomerCode(s *Scan) []Candidate {
	if s.Markup {
		for _, c := range s.Row.Cells {
			if lexicon.CustomerCode.MatchString(c.Value) {
				return []Candidate{{Value: c.Value, Row: s.Row.Index}}
			}
		}
		return nil
	}
	if tok := lexicon.CustomerToken.FindString(s.Row.Text()); tok != "" {
		return []Candidate{{Value: tok, Row: s.Row.Index}}
	}
	return nil
}

func assignCustomerCode(ex *domain.Extraction, c Candidate) bool {
	if !domain.SetOnce(&ex.Meta.CustomerCode, c.Value) {
		return false
	}
	ex.CustomerRow = c.Row
	return true
}

func detectSalesPerson(s *Scan) []Candidate {
	if s.Markup {
		for _, c := range s.Row.Cells {
			if salesPersonCell.MatchString(c.Value) {
				return []Candidate{{Value: c.Value, Row: s.Row.Index}}
			}
		}
		return nil
	}
	if tok := salesPersonToken.FindString(s.Row.Text()); tok != "" {
		return []Candidate{{Value: tok, Row: s.Row.Index}}
	}
	return nil
}

func detectPO(s *Scan) []Candidate {
	if s.Markup {
		for _, c := range s.Row.Cells {
			if poCell.MatchString(c.Value) {
				return []Candidate{{Value: c.Value, Row: s.Row.Index}}
			}
		}
		return nil
	}
	if tok := poToken.FindString(s.Row.Text()); tok != "" {
		return []Candidate{{Value: strings.TrimSpace(tok), Row: s.Row.Index}}
	}
	return nil
}

// labelled reads the cell after a label cell. Line forms have no reliable
// column adjacency, so nothing is detected for them.
func labelled(labels []string) func(s *Scan) []Candidate {
	return func(s *Scan) []Candidate {
		if !s.Markup {
			return nil
		}
		cells := s.Row.Cells
		for i, c := range cells {
			if !lexicon.ContainsAny(c.Value, labels...) {
				continue
			}
			for j := i + 1; j < len(cells); j++ {
				if v := strings.TrimSpace(cells[j].Value); v != "" {
					return []Candidate{{Value: v, Label: c.Value, Row: s.Row.Index}}
				}
			}
			return nil
		}
		return nil
	}
}

func assignValidDays(ex *domain.Extraction, c Candidate) bool {
	if ex.Meta.ValidDays != 0 {
		return false
	}
	m := firstInteger.FindString(c.Value)
	if m == "" {
		return false
	}
	days, err := strconv.Atoi(m)
	if err != nil || days <= 0 {
		return false
	}
	ex.Meta.ValidDays = days
	return true
}

func detectDates(s *Scan) []Candidate {
	var out []Candidate
	if s.Markup {
		label := ""
		for _, c := range s.Row.Cells {
			v := strings.TrimSpace(c.Value)
			switch {
			case v == "":
				continue
			case c.Type == domain.CellDateTime:
				date, _, _ := strings.Cut(v, "T")
				out = append(out, Candidate{Value: date, Label: label, Row: s.Row.Index})
			case dateCell.MatchString(v):
				out = append(out, Candidate{Value: v, Label: label, Row: s.Row.Index})
			}
			label = v
		}
		return out
	}

	text := s.Row.Text()
	prev := 0
	for _, loc := range dateToken.FindAllStringIndex(text, -1) {
		out = append(out, Candidate{
			Value: text[loc[0]:loc[1]],
			Label: lastWords(text[prev:loc[0]], 3),
			Row:   s.Row.Index,
		})
		prev = loc[1]
	}
	return out
}

// assignDate attributes a date by its label. Unlabeled dates fill the
// document date first, then the due date for quotations or the delivery
// date for sales orders.
func assignDate(ex *domain.Extraction, c Candidate) bool {
	m := &ex.Meta
	switch {
	case lexicon.ContainsAny(c.Label, deliveryLabels...):
		return domain.SetOnce(&m.DeliveryDate, c.Value)
	case lexicon.ContainsAny(c.Label, dueLabels...):
		return domain.SetOnce(&m.DueDate, c.Value)
	case lexicon.ContainsAny(c.Label, dateLabels...):
		return domain.SetOnce(&m.Date, c.Value)
	case m.Date == "":
		return domain.SetOnce(&m.Date, c.Value)
	case m.Type == domain.DocSalesOrder:
		return domain.SetOnce(&m.DeliveryDate, c.Value)
	default:
		return domain.SetOnce(&m.DueDate, c.Value)
	}
}

func lastWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
