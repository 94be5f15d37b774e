// Package lexicon holds the label vocabulary and number handling shared by
// the extraction stages. All matching assumes text already passed through
// the text normaliser (NFC, precomposed SARA AM, single spaces).
package lexicon

import (
	"regexp"
	"strconv"
	"strings"
)

// Document identity shapes.
var (
	QuotationNumber  = regexp.MustCompile(`^QT\d+$`)
	SalesOrderNumber = regexp.MustCompile(`^SO\d+$`)
	CustomerCode     = regexp.MustCompile(`^CU\d+$`)

	DocumentToken = regexp.MustCompile(`\b(?:QT|SO)\d{4,}\b`)
	CustomerToken = regexp.MustCompile(`\bCU\d+\b`)
)

// Summary labels.
const (
	GrandTotal       = "รวมทั้งสิ้น"
	GrandTotalAmount = "จำนวนเงินรวมทั้งสิ้น"
	Deduct           = "หัก"
	Discount         = "ส่วนลด"
	Tax              = "ภาษี"
)

// SubtotalLabels mark the end of the item table and the subtotal row.
var SubtotalLabels = []string{"รวมเป็นเงิน", "รวมทั้งหมด", "subtotal", "sub total", "sub-total"}

// Summary vocabulary never appears in a genuine item description or
// remark. Thai words match anywhere; English words only as whole words so
// that "Elevator" or "Totalstation" stay item text.
var (
	summaryWords   = []string{"รวม", "ภาษี", "ส่วนลด"}
	summaryEnglish = regexp.MustCompile(`(?i)\b(?:vat|discount|sub\s*-?total|total)\b`)
)

// Header column labels. A row is a table header when it carries at least
// one label of every group.
var (
	CodeLabels        = []string{"รหัสสินค้า", "รหัส", "ลำดับ", "no.", "code", "item"}
	DescriptionLabels = []string{"รายละเอียด", "สินค้า", "description"}
	QuantityLabels    = []string{"จำนวน", "qty", "quantity"}
	PriceLabels       = []string{"ราคา", "price"}
)

// ContainsAny reports whether s contains any of words, ignoring ASCII case.
func ContainsAny(s string, words ...string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// IsSummaryText reports whether s uses financial-summary vocabulary.
func IsSummaryText(s string) bool {
	return ContainsAny(s, summaryWords...) || summaryEnglish.MatchString(s)
}

// IsHeader reports whether text names all item-table columns.
func IsHeader(text string) bool {
	return ContainsAny(text, CodeLabels...) &&
		ContainsAny(text, DescriptionLabels...) &&
		ContainsAny(text, QuantityLabels...) &&
		ContainsAny(text, PriceLabels...)
}

// IsSubtotalRow reports whether text carries a subtotal label and not the
// grand-total label.
func IsSubtotalRow(text string) bool {
	return ContainsAny(text, SubtotalLabels...) && !strings.Contains(text, GrandTotal)
}

// Number is a numeric token found in text.
type Number struct {
	Value float64
	Text  string

	// Start and End are byte offsets into the scanned text.
	Start, End int

	// Percent is set when the token is followed by a percent sign.
	Percent bool

	// Negative is set when a free-standing minus sign precedes the token.
	// Value holds the magnitude.
	Negative bool
}

// Money reports whether the token is written with exactly two decimals.
func (n Number) Money() bool {
	i := strings.LastIndexByte(n.Text, '.')
	return i >= 0 && len(n.Text)-i == 3
}

var (
	numberCandidate = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	groupedNumber   = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	plainNumber     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Numbers returns the standalone numbers in s in order. Digits glued to
// ASCII letters, slashes or hyphens (codes, dates, sizes) are skipped; a
// hyphen that itself starts a word is read as a minus sign.
func Numbers(s string) []Number {
	var out []Number
	for _, loc := range numberCandidate.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		for end > start && s[end-1] == ',' {
			end--
		}
		negative := minusSign(s, start)
		if (!negative && !boundaryBefore(s, start)) || !boundaryAfter(s, end) {
			continue
		}
		tok := s[start:end]
		v, ok := ParseNumber(tok)
		if !ok {
			continue
		}
		n := Number{Value: v, Text: tok, Start: start, End: end, Negative: negative}
		rest := strings.TrimLeft(s[end:], " ")
		n.Percent = strings.HasPrefix(rest, "%")
		out = append(out, n)
	}
	return out
}

// minusSign reports a '-' directly before position i that follows the
// start of s, a space, an opening bracket or non-ASCII text.
func minusSign(s string, i int) bool {
	if i == 0 || s[i-1] != '-' {
		return false
	}
	if i == 1 {
		return true
	}
	c := s[i-2]
	return c == ' ' || c == '(' || c >= 0x80
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isGlue(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	c := s[i]
	if c == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		return false
	}
	return !isGlue(c)
}

// isGlue matches ASCII bytes that bind a digit run into a larger token.
func isGlue(c byte) bool {
	return isDigit(c) || c == '/' || c == '-' || c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ParseNumber parses "1,234.50", "80" or "3.0". Grouping commas must be
// well formed.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !groupedNumber.MatchString(s) && !plainNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseAmount parses a cell that may carry currency decoration such as
// "฿1,200.00", "1,200.00 บาท" or "(1,200.00)".
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "฿")
	s = strings.TrimSuffix(s, "บาท")
	s = strings.Trim(s, " ()")
	return ParseNumber(s)
}

// Nearest returns the number closest to the span [start, end), looking on
// both sides. Percent tokens are skipped unless allowPercent is set.
func Nearest(nums []Number, start, end int, allowPercent bool) (Number, bool) {
	best, bestDist := Number{}, -1
	for _, n := range nums {
		if n.Percent && !allowPercent {
			continue
		}
		var dist int
		switch {
		case n.Start >= end:
			dist = n.Start - end
		case n.End <= start:
			dist = start - n.End
		default:
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best, bestDist >= 0
}

// IndexAny returns the byte span of the first of words found in s,
// ignoring ASCII case.
func IndexAny(s string, words ...string) (int, int, bool) {
	lower := strings.ToLower(s)
	for _, w := range words {
		lw := strings.ToLower(w)
		if i := strings.Index(lower, lw); i >= 0 {
			return i, i + len(lw), true
		}
	}
	return 0, 0, false
}
