package dedupe

import (
	"slices"
	"sort"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/difflib"
)

// RankFunc scores a selector's priority. Higher ranks win conflicts.
type RankFunc func(selector string) int

// Sections orders sections by rank, then by content length, both
// descending, and keeps each section unless its content is empty or
// duplicates an already kept section by equality, similarity at
// SectionDedupeThreshold or containment. The result is in priority order.
// A nil rank orders by length alone.
func Sections(sections []*harvest.ExtractedSection, rank RankFunc) []*harvest.ExtractedSection {
	ordered := slices.Clone(sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		if rank != nil {
			ri, rj := rank(ordered[i].SelectorUsed), rank(ordered[j].SelectorUsed)
			if ri != rj {
				return ri > rj
			}
		}
		return len(ordered[i].Content) > len(ordered[j].Content)
	})

	set := NewSet(SectionDedupeThreshold, WithContainment())
	kept := make([]*harvest.ExtractedSection, 0, len(ordered))
	for _, s := range ordered {
		if set.Add(s.Content) {
			kept = append(kept, s)
		}
	}
	return kept
}

// Nested merges the texts of elements matched by one selector. A text
// wholly contained in a kept text, or SectionThreshold similar to one, is
// dropped; a kept text wholly contained in a later text is replaced by it
// in place. Document order is otherwise preserved.
func Nested(texts []string) []string {
	var kept, norms []string
	for _, t := range texts {
		n := difflib.Normalize(t)
		if n == "" || nestedDuplicate(n, norms) {
			continue
		}

		// Replace the first kept text n contains, drop any others.
		pos := -1
		for i := 0; i < len(norms); {
			if !strings.Contains(n, norms[i]) {
				i++
				continue
			}
			if pos < 0 {
				pos = i
				kept[i], norms[i] = t, n
				i++
				continue
			}
			kept = slices.Delete(kept, i, i+1)
			norms = slices.Delete(norms, i, i+1)
		}
		if pos < 0 {
			kept = append(kept, t)
			norms = append(norms, n)
		}
	}
	return kept
}

func nestedDuplicate(n string, norms []string) bool {
	for _, k := range norms {
		if strings.Contains(k, n) || difflib.SimilarAtLeast(n, k, SectionThreshold) {
			return true
		}
	}
	return false
}
