package items

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// units recognised by the strict line pattern.
const units = `ห่อ|ตัว|อัน|หลอด|ม้วน|แผ่น|เมตร|ชิ้น|กิโลกรัม|กรัม|ชุด|กล่อง|เส้น|ถุง|ลัง|แพ็ค|ม\.|ea|pcs|set`

// linePattern is one level of the strict-to-loose item line cascade.
type linePattern struct {
	name    string
	re      *regexp.Regexp
	hasUnit bool
}

// cascade lists the line patterns from strictest to loosest. Every pattern
// captures item number, description, quantity, [unit,] unit price, amount.
var cascade = []linePattern{
	{
		name:    "strict",
		re:      regexp.MustCompile(`^(\d{1,4})\.?\s+(.+?)\s+([\d,]+(?:\.\d+)?)\s+(` + units + `)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})(?:\s|$)`),
		hasUnit: true,
	},
	{
		name:    "loose",
		re:      regexp.MustCompile(`^(\d{1,4})\.?\s+(.+?)\s+([\d,]+(?:\.\d+)?)\s+(\S+)\s+([\d,]+(?:\.\d+)?)\s+([\d,]+\.\d{2})(?:\s|$)`),
		hasUnit: true,
	},
	{
		name: "no-unit",
		re:   regexp.MustCompile(`^(\d{1,4})\.?\s+(.+?)\s+([\d,]+(?:\.\d+)?)\s+([\d,]+(?:\.\d+)?)\s+([\d,]+\.\d{2})(?:\s|$)`),
	},
}

// productCode is a leading description word that looks like an item code.
var productCode = regexp.MustCompile(`^[A-Za-z]{1,4}-?\d[\w./-]*$`)

// candidate is an item parsed from one row, before validation.
type candidate struct {
	sourceLine int
	item       domain.LineItem
}

// selectPattern returns the index of the first pattern matching any row,
// or -1 when none does.
func selectPattern(rows []domain.Row) int {
	for i, p := range cascade {
		for _, row := range rows {
			if p.re.MatchString(row.Text()) {
				return i
			}
		}
	}
	return -1
}

// matchLine parses a row with the given cascade pattern.
func matchLine(p linePattern, row domain.Row) (candidate, bool) {
	m := p.re.FindStringSubmatch(row.Text())
	if m == nil {
		return candidate{}, false
	}

	n, _ := strconv.Atoi(m[1])
	desc := strings.TrimSpace(m[2])
	qty, price, amount := m[3], m[4], m[5]
	unit := ""
	if p.hasUnit {
		unit, price, amount = m[4], m[5], m[6]
	}

	item := domain.LineItem{Description: desc, Unit: unit}
	if words := strings.Fields(desc); len(words) > 1 && productCode.MatchString(words[0]) {
		item.ProductCode = words[0]
		item.Description = strings.Join(words[1:], " ")
	}

	var okQ, okP, okA bool
	item.Quantity, okQ = lexicon.ParseNumber(qty)
	item.UnitPrice, okP = lexicon.ParseNumber(price)
	item.Amount, okA = lexicon.ParseNumber(amount)
	if !okQ || !okP || !okA {
		return candidate{}, false
	}
	return candidate{sourceLine: n, item: item}, true
}
