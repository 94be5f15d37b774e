package items

import (
	"math"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// layout holds the column positions derived from a markup header row.
// The amount is always read from the last cell of a data row.
type layout struct {
	code, desc, qty, unit, price int
	width                        int
}

// headerLayout maps header labels to columns, falling back to fixed
// header-relative positions for labels that are missing.
func headerLayout(header domain.Row) layout {
	l := layout{code: -1, desc: -1, qty: -1, unit: -1, price: -1, width: header.Len()}
	for i, c := range header.Cells {
		v := strings.ToLower(strings.TrimSpace(c.Value))
		switch {
		case v == "":
		case strings.Contains(v, "รหัส") || v == "code":
			if l.code < 0 || !strings.Contains(header.Cell(l.code), "รหัส") {
				l.code = i
			}
		case strings.Contains(v, "ลำดับ") || v == "no." || v == "no" || v == "item":
			if l.code < 0 {
				l.code = i
			}
		case strings.Contains(v, "รายละเอียด") || strings.Contains(v, "description"):
			l.desc = i
		case strings.Contains(v, "สินค้า"):
			if l.desc < 0 {
				l.desc = i
			}
		case (strings.Contains(v, "จำนวน") && !strings.Contains(v, "เงิน")) || strings.HasPrefix(v, "qty") || v == "quantity":
			if l.qty < 0 {
				l.qty = i
			}
		case (strings.Contains(v, "หน่วย") && !strings.Contains(v, "ราคา")) || v == "unit":
			if l.unit < 0 {
				l.unit = i
			}
		case (strings.Contains(v, "ราคา") && !strings.Contains(v, "รวม")) || strings.Contains(v, "price"):
			if l.price < 0 {
				l.price = i
			}
		}
	}

	if l.code < 0 {
		l.code = 0
	}
	if l.desc < 0 {
		l.desc = l.code + 1
	}
	if l.qty < 0 {
		l.qty = l.desc + 1
	}
	if l.price < 0 {
		l.price = max(l.qty, l.unit) + 1
	}
	return l
}

// readMarkupRow reads one data row positionally. Rows narrower than the
// header, or without positive quantity, price and amount, are rejected.
func readMarkupRow(l layout, row domain.Row) (domain.LineItem, bool) {
	if row.Len() < l.width || row.Len() < 2 {
		return domain.LineItem{}, false
	}

	item := domain.LineItem{
		ProductCode: strings.TrimSpace(row.Cell(l.code)),
		Description: strings.TrimSpace(row.Cell(l.desc)),
	}
	if l.unit >= 0 {
		item.Unit = strings.TrimSpace(row.Cell(l.unit))
	}
	if item.ProductCode == "" && item.Description == "" {
		return domain.LineItem{}, false
	}

	var okQ, okP, okA bool
	item.Quantity, okQ = lexicon.ParseAmount(row.Cell(l.qty))
	item.UnitPrice, okP = lexicon.ParseAmount(row.Cell(l.price))
	item.Amount, okA = lexicon.ParseAmount(row.Last())
	if !okQ || !okP || !okA {
		return domain.LineItem{}, false
	}
	return item, true
}

// readLooseMarkupRow recognises an item row without a header: the last
// three non-empty cells are quantity, unit price and amount, and the
// amount must agree with quantity times price.
func readLooseMarkupRow(row domain.Row) (domain.LineItem, bool) {
	var values []string
	for _, c := range row.Cells {
		if v := strings.TrimSpace(c.Value); v != "" {
			values = append(values, v)
		}
	}
	if len(values) < 4 {
		return domain.LineItem{}, false
	}

	n := len(values)
	qty, okQ := lexicon.ParseAmount(values[n-3])
	price, okP := lexicon.ParseAmount(values[n-2])
	amount, okA := lexicon.ParseAmount(values[n-1])
	if !okQ || !okP || !okA || math.Abs(qty*price-amount) > 1 {
		return domain.LineItem{}, false
	}

	item := domain.LineItem{Quantity: qty, UnitPrice: price, Amount: amount}
	rest := values[:n-3]
	if len(rest) > 1 && isOrdinal(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) > 1 && productCode.MatchString(rest[0]) {
		item.ProductCode = rest[0]
		rest = rest[1:]
	}
	var desc []string
	for _, v := range rest {
		if _, numeric := lexicon.ParseNumber(v); !numeric {
			desc = append(desc, v)
		}
	}
	item.Description = strings.Join(desc, " ")
	return item, item.Description != ""
}

func isOrdinal(s string) bool {
	v, ok := lexicon.ParseNumber(strings.TrimSuffix(s, "."))
	return ok && v == math.Trunc(v) && v > 0 && v < 10000
}
