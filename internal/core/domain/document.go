package domain

import (
	"reflect"
	"strings"
	"time"
)

// DocType distinguishes quotations from sales orders.
type DocType string

const (
	DocUnknown    DocType = "unknown"
	DocQuotation  DocType = "quotation"
	DocSalesOrder DocType = "sales_order"
)

// Prefix returns the document-number prefix for the type.
func (t DocType) Prefix() string {
	switch t {
	case DocQuotation:
		return "QT"
	case DocSalesOrder:
		return "SO"
	default:
		return ""
	}
}

// DocumentMeta holds document-level fields.
// Fields are filled once; later candidates never overwrite them.
type DocumentMeta struct {
	// Type is the document family resolved from the number shape.
	Type DocType `json:"type"`

	// Number is the document number, e.g. QT6801234.
	Number string `json:"number,omitempty"`

	// CustomerCode is the ERP customer identifier, e.g. CU00123.
	CustomerCode string `json:"customer_code,omitempty"`

	// CustomerName is the customer's registered name.
	CustomerName string `json:"customer_name,omitempty"`

	AddressLine1  string `json:"address_line1,omitempty"`
	AddressLine2  string `json:"address_line2,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`

	// Date is the document date as printed (dd/mm/yy or ISO date).
	Date         string `json:"date,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	DeliveryDate string `json:"delivery_date,omitempty"`

	// POReference is the customer's purchase order number.
	POReference string `json:"po_reference,omitempty"`

	// SalesPerson is "code-name" as printed by the ERP.
	SalesPerson string `json:"sales_person,omitempty"`

	PaymentTerm string `json:"payment_term,omitempty"`

	// ValidDays is the quotation validity in days; zero when unknown.
	ValidDays int `json:"valid_days,omitempty"`
}

// LineItem is one retained row of the item table.
type LineItem struct {
	// LineNumber is assigned densely from 1 over retained items.
	LineNumber int `json:"line_number"`

	ProductCode string `json:"product_code,omitempty"`
	Description string `json:"description"`

	// FullDescription is Description followed by remarks in parentheses.
	FullDescription string `json:"full_description"`

	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`

	// Remarks are continuation lines folded into this item.
	Remarks []string `json:"remarks,omitempty"`
}

// HasRemarks reports whether any remark was folded into the item.
func (i LineItem) HasRemarks() bool {
	return len(i.Remarks) > 0
}

// RemarkCount returns the number of folded remarks.
func (i LineItem) RemarkCount() int {
	return len(i.Remarks)
}

// ComposeDescription returns the description with remarks appended.
func (i LineItem) ComposeDescription() string {
	if len(i.Remarks) == 0 {
		return i.Description
	}
	return i.Description + " (" + strings.Join(i.Remarks, ", ") + ")"
}

// FinancialSummary is the reconciled money block of a document.
// Nil pointers mean the value was neither found nor derivable.
type FinancialSummary struct {
	Subtotal   *float64 `json:"subtotal"`
	Discount   float64  `json:"discount"`
	VATPercent *float64 `json:"vat_percent"`
	VATAmount  *float64 `json:"vat_amount"`
	Total      *float64 `json:"total"`

	// SubtotalDerived is set when Subtotal was summed from items.
	SubtotalDerived bool `json:"subtotal_derived,omitempty"`

	// TotalDerived is set when Total came from subtotal - discount + vat.
	TotalDerived bool `json:"total_derived,omitempty"`
}

// TotalValue returns the total or zero.
func (s FinancialSummary) TotalValue() float64 {
	if s.Total == nil {
		return 0
	}
	return *s.Total
}

// Stats are counts derived from the retained items.
type Stats struct {
	ItemCount        int     `json:"item_count"`
	ItemsWithRemarks int     `json:"items_with_remarks"`
	TotalRemarks     int     `json:"total_remarks"`
	TotalItemsValue  float64 `json:"total_items_value"`

	// NetBeforeVAT is subtotal minus discount when the subtotal is known.
	NetBeforeVAT float64 `json:"net_before_vat"`
}

// ParseResult is the canonical output of one engine invocation.
type ParseResult struct {
	Form        Form             `json:"form"`
	Meta        DocumentMeta     `json:"meta"`
	Items       []LineItem       `json:"items"`
	Summary     FinancialSummary `json:"summary"`
	Stats       Stats            `json:"stats"`
	Success     bool             `json:"success"`
	Diagnostics []Diagnostic     `json:"diagnostics"`

	// ParserVersion identifies the extraction rules that produced the result.
	ParserVersion string `json:"parser_version"`

	// ProcessedAt is the only wall-clock field; Equal ignores it.
	ProcessedAt time.Time `json:"processed_at"`
}

// Failed builds an unsuccessful result carrying a single diagnostic.
func Failed(form Form, d Diagnostic) ParseResult {
	return ParseResult{
		Form:        form,
		Meta:        DocumentMeta{Type: DocUnknown},
		Items:       []LineItem{},
		Diagnostics: []Diagnostic{d},
	}
}

// Equal compares two results ignoring ProcessedAt.
func (r ParseResult) Equal(other ParseResult) bool {
	r.ProcessedAt = time.Time{}
	other.ProcessedAt = time.Time{}
	return reflect.DeepEqual(r, other)
}
