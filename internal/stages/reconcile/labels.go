package reconcile

import (
	"regexp"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// Total label priorities; lower wins.
const (
	priorityGrandTotalAmount = 1
	priorityGrandTotal       = 2
	priorityEnglishTotal     = 3
	priorityBahtText         = 4
	priorityUnlabeled        = 9
)

var (
	englishTotal    = regexp.MustCompile(`(?i)grand\s*total|net\s*amount|total\s*amount`)
	englishDiscount = regexp.MustCompile(`(?i)\b(?:less|deduct)\s*:?\s*discount\b`)

	// bahtText is an amount followed by the amount spelled out in Thai,
	// e.g. "5,350.00 (ห้าพันสามร้อยห้าสิบบาทถ้วน)".
	bahtText = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*\.\d{2})\s*\(([^)]*บาท[^)]*)\)`)

	moneyShape = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*\.\d{2}$`)
)

var (
	notSubtotal = []string{"grand", "net"}
	taxIDLabels = []string{"เลขประจำตัว", "tax id"}
	vatLabels   = []string{lexicon.Tax, "vat"}
)

// span is the byte range of a label inside a row's text.
type span struct {
	start, end int
}

// subtotalLabel finds a subtotal label, or a cell reading exactly "รวม",
// on a row that carries no grand or net total label.
func subtotalLabel(row domain.Row, text string) (span, bool) {
	if strings.Contains(text, lexicon.GrandTotal) || lexicon.ContainsAny(text, notSubtotal...) {
		return span{}, false
	}
	if start, end, ok := lexicon.IndexAny(text, lexicon.SubtotalLabels...); ok {
		return span{start, end}, true
	}
	if bareTotalCell(row) {
		start, end, _ := lexicon.IndexAny(text, "รวม")
		return span{start, end}, true
	}
	return span{}, false
}

func bareTotalCell(row domain.Row) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c.Value) == "รวม" {
			return true
		}
	}
	return false
}

// discountLabel requires both the deduct and discount words, in Thai or
// as "Less discount". A bare discount word labels promotions, not the
// deduction row.
func discountLabel(text string) (span, bool) {
	if strings.Contains(text, lexicon.Deduct) && strings.Contains(text, lexicon.Discount) {
		start, end, _ := lexicon.IndexAny(text, lexicon.Discount)
		return span{start, end}, true
	}
	if loc := englishDiscount.FindStringIndex(text); loc != nil {
		return span{loc[0], loc[1]}, true
	}
	return span{}, false
}

// vatLabel matches VAT rows but not the taxpayer ID label, which also
// contains the tax word.
func vatLabel(text string) bool {
	return lexicon.ContainsAny(text, vatLabels...) && !lexicon.ContainsAny(text, taxIDLabels...)
}

// totalLabel returns the most specific total label on the row.
func totalLabel(text string) (span, int, bool) {
	if i := strings.Index(text, lexicon.GrandTotalAmount); i >= 0 {
		return span{i, i + len(lexicon.GrandTotalAmount)}, priorityGrandTotalAmount, true
	}
	if i := strings.Index(text, lexicon.GrandTotal); i >= 0 {
		return span{i, i + len(lexicon.GrandTotal)}, priorityGrandTotal, true
	}
	if loc := englishTotal.FindStringIndex(text); loc != nil {
		return span{loc[0], loc[1]}, priorityEnglishTotal, true
	}
	return span{}, 0, false
}
