package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases text and strips combining marks ("Crescendo", "crescéndo" -> "crescendo").
// Letters without a decomposition (ß, ø) are kept as-is.
func Fold(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	return strings.ToLower(folded)
}

// CollapseSpaces trims the value and collapses internal whitespace runs to one space.
func CollapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeTerm returns the canonical lookup key for a dictionary term: folded,
// whitespace-collapsed, with surrounding punctuation removed.
func NormalizeTerm(term string) string {
	folded := CollapseSpaces(Fold(term))
	return strings.TrimFunc(folded, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// IsNumeric reports whether the trimmed value consists only of digits and
// numeric punctuation.
func IsNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	digits := 0
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-' || r == '+' || r == '/' || r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}
