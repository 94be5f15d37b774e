// Package text cleans extracted document text before any pattern matching.
//
// Cleaning is total: it never fails and only removes noise. Thai text
// recovered from PDFs carries spaces and zero-width characters inside
// words; those gaps are closed where Thai orthography guarantees the two
// sides belong to the same word.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Thai code points with positional constraints.
const (
	thaiFirst     = '\u0e01'
	thaiLast      = '\u0e5b'
	leadingVowelL = '\u0e40'
	leadingVowelH = '\u0e44'

	// PDF extraction emits SARA AM as NIKHAHIT + SARA AA.
	saraAmDecomp = "\u0e4d\u0e32"
	saraAm       = "\u0e33"
)

var columnGap = regexp.MustCompile(`[ \x{00a0}]{2,}|\t`)

// Clean normalises one piece of text to a single line.
// Control characters become spaces, whitespace runs collapse to one space,
// Unicode is composed (NFC) and split Thai words are rejoined.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, saraAmDecomp, saraAm)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(rejoin(s))
}

// CleanLines cleans each physical line and drops lines left empty.
func CleanLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if cleaned := Clean(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

// SplitColumns splits a raw line on tabs and runs of two or more spaces,
// then cleans each part. Empty parts are dropped.
func SplitColumns(line string) []string {
	var cols []string
	for _, part := range columnGap.Split(line, -1) {
		if cleaned := Clean(part); cleaned != "" {
			cols = append(cols, cleaned)
		}
	}
	return cols
}

// rejoin drops format characters, collapses whitespace runs and removes
// gaps that fall inside a Thai word.
func rejoin(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		if !unicode.IsSpace(r) {
			out = append(out, r)
			continue
		}

		j := i
		for j < len(runes) && (unicode.IsSpace(runes[j]) || unicode.Is(unicode.Cf, runes[j])) {
			j++
		}
		if len(out) == 0 || j == len(runes) || !joinsAcrossGap(out[len(out)-1], runes[j]) {
			out = append(out, ' ')
		}
		i = j - 1
	}
	return string(out)
}

// joinsAcrossGap reports whether prev and next must belong to one word.
// A leading vowel never ends a word and a dependent vowel or tone mark
// never starts one.
func joinsAcrossGap(prev, next rune) bool {
	if isLeadingVowel(prev) && isThai(next) {
		return true
	}
	return isThai(prev) && isDependent(next)
}

func isThai(r rune) bool {
	return r >= thaiFirst && r <= thaiLast
}

func isLeadingVowel(r rune) bool {
	return r >= leadingVowelL && r <= leadingVowelH
}

// isDependent covers Thai vowels and marks that attach to a preceding
// consonant (SARA A, MAI HAN-AKAT, SARA AA, SARA AM, the above and below
// vowels, LAKKHANGYAO and the tone marks).
func isDependent(r rune) bool {
	switch {
	case r >= '\u0e30' && r <= '\u0e3a':
		return true
	case r == '\u0e45':
		return true
	case r >= '\u0e47' && r <= '\u0e4e':
		return true
	}
	return false
}
