package dedupe

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLength is the length a sentence must exceed before a
// terminator ends it. Shorter runs absorb abbreviations and decimals.
const MinSentenceLength = 12

// Sentences removes sentences that are SentenceThreshold similar to an
// earlier sentence of text. Line structure is kept.
func Sentences(text string) string {
	return NewSentenceFilter().Filter(text)
}

// SentenceFilter removes sentences similar to any sentence it has already
// let through, across every text it filters.
type SentenceFilter struct {
	set *Set
}

// NewSentenceFilter returns a filter with no kept sentences.
func NewSentenceFilter() *SentenceFilter {
	return &SentenceFilter{set: NewSet(SentenceThreshold)}
}

// Filter returns text without already seen sentences. Lines left empty are
// dropped and blank line runs collapse to one.
func (f *SentenceFilter) Filter(text string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			blank = len(lines) > 0
			continue
		}
		var keep []string
		for _, s := range SplitSentences(line) {
			if f.set.Add(s) {
				keep = append(keep, s)
			}
		}
		if len(keep) == 0 {
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, strings.Join(keep, " "))
	}
	return strings.Join(lines, "\n")
}

// SplitSentences splits s after '.', '!' or '?' when followed by
// whitespace or the end of s, once the sentence exceeds MinSentenceLength.
func SplitSentences(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
	}

	for i, r := range s {
		cur.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(s[i+utf8.RuneLen(r):])
		atBoundary := i+utf8.RuneLen(r) == len(s) || unicode.IsSpace(next)
		if atBoundary && utf8.RuneCountInString(strings.TrimSpace(cur.String())) > MinSentenceLength {
			flush()
		}
	}
	flush()
	return out
}
