// Package difflib scores text similarity with the Ratcliff/Obershelp
// longest-matching-blocks ratio provided by go-difflib.
package difflib

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Normalize lower-cases s and collapses all whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similarity returns the matching-blocks ratio of the normalized texts,
// in [0, 1]. The operands are matched in a canonical order so the score
// does not depend on argument order.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return matcher(a, b).Ratio()
}

// SimilarAtLeast reports whether Similarity(a, b) >= threshold. Cheap upper
// bounds are checked before the full ratio is computed.
func SimilarAtLeast(a, b string, threshold float64) bool {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return threshold <= 0
	}
	ra, rb := []rune(a), []rune(b)
	shorter := min(len(ra), len(rb))
	if 2*float64(shorter)/float64(len(ra)+len(rb)) < threshold {
		return false
	}
	m := matcher(a, b)
	if m.QuickRatio() < threshold {
		return false
	}
	return m.Ratio() >= threshold
}

func matcher(a, b string) *difflib.SequenceMatcher {
	if a > b {
		a, b = b, a
	}
	// Autojunk would treat frequent characters such as spaces as junk on
	// paragraph-length input.
	return difflib.NewMatcherWithJunk(chars(a), chars(b), false, nil)
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
