package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// separator reports runes that never take part in a title comparison.
func separator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsControl(r)
}

// Normalize folds s into its comparison form: full-width forms become half-width,
// whitespace and punctuation are dropped and case is folded.
// "Spider-Man: No Way Home" and "SPIDER MAN NO WAY HOME" normalize identically.
func Normalize(s string) string {
	// Casers are stateful, so the chain is built per call.
	t := transform.Chain(width.Narrow, runes.Remove(runes.Predicate(separator)), cases.Fold())
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.Join(strings.FieldsFunc(s, separator), ""))
	}
	return out
}

// NamesEqual reports whether two titles are the same after normalization.
// Empty names never match.
func NamesEqual(a, b string) bool {
	na := Normalize(a)
	if na == "" {
		return false
	}
	return na == Normalize(b)
}

// MatchAny reports whether name equals any of candidates under NamesEqual.
func MatchAny(name string, candidates ...string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	for _, c := range candidates {
		if c != "" && Normalize(c) == n {
			return true
		}
	}
	return false
}

// IsNumeric reports whether s is non-empty and made only of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
