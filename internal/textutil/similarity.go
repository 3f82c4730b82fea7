package textutil

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns the sequence-matcher similarity of a and b in [0, 1],
// compared rune by rune.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
