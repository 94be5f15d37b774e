package items

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

const (
	minRemarkLen = 3
	maxRemarkLen = 200
)

var (
	remarkBullet = regexp.MustCompile(`^[-*•·>]+\s*`)
	pureNumber   = regexp.MustCompile(`^[\d,.\s]+$`)
)

// cleanRemark trims bullets and surrounding space from a continuation line.
func cleanRemark(s string) string {
	s = strings.TrimSpace(s)
	s = remarkBullet.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// validRemark rejects lines that cannot be item annotations: pure
// numbers, pure punctuation, summary vocabulary and lines that carry two
// or more money amounts (unparsed priced rows).
func validRemark(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minRemarkLen || n > maxRemarkLen {
		return false
	}
	if pureNumber.MatchString(s) || !hasLetterOrDigit(s) {
		return false
	}
	if lexicon.IsSummaryText(s) {
		return false
	}

	money := 0
	for _, num := range lexicon.Numbers(s) {
		if num.Money() {
			money++
		}
	}
	return money < 2
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
