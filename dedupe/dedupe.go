// Package dedupe removes repeated, nested and overlapping text at item,
// section and sentence granularity.
package dedupe

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest/difflib"
)

// Similarity thresholds per call site. Texts scoring at or above the
// threshold against a kept text are duplicates.
const (
	// SectionThreshold compares whole blocks matched by the same selector.
	SectionThreshold = 0.85
	// SectionDedupeThreshold compares sections captured by different selectors.
	SectionDedupeThreshold = 0.75
	// ItemThreshold compares items of one array.
	ItemThreshold = 0.75
	// SentenceThreshold compares sentences.
	SentenceThreshold = 0.80
)

const (
	// MinDuplicateLength is the length below which IsDuplicate treats a
	// candidate as noise.
	MinDuplicateLength = 20

	// ContainmentRatio is the minimum length of a contained text relative
	// to its container for the two to count as the same content.
	ContainmentRatio = 0.5
)

// IsDuplicate reports whether candidate is empty, shorter than
// MinDuplicateLength, equal to an existing text after normalization or at
// least threshold similar to one.
func IsDuplicate(candidate string, existing []string, threshold float64) bool {
	return isDuplicate(difflib.Normalize(candidate), normalizeAll(existing), threshold, MinDuplicateLength)
}

// isDuplicate is IsDuplicate over normalized texts.
func isDuplicate(c string, norms []string, threshold float64, minLength int) bool {
	if utf8.RuneCountInString(c) < minLength {
		return true
	}
	for _, n := range norms {
		if c == n || difflib.SimilarAtLeast(c, n, threshold) {
			return true
		}
	}
	return false
}

func normalizeAll(texts []string) []string {
	norms := make([]string, len(texts))
	for i, t := range texts {
		norms[i] = difflib.Normalize(t)
	}
	return norms
}

// Containment checks candidate against existing texts for nesting.
// contained is true when candidate is a substring of an existing text and
// at least ContainmentRatio of its length. evict is the index of the first
// existing text that is such a substring of candidate, or -1.
func Containment(candidate string, existing []string) (contained bool, evict int) {
	return containment(difflib.Normalize(candidate), normalizeAll(existing))
}

func containment(c string, norms []string) (bool, int) {
	evict := -1
	if c == "" {
		return false, evict
	}
	for i, n := range norms {
		if n == "" {
			continue
		}
		if nests(c, n) {
			return true, -1
		}
		if evict < 0 && nests(n, c) {
			evict = i
		}
	}
	return false, evict
}

// nests reports whether inner is a substring of outer with a length of at
// least ContainmentRatio of outer's.
func nests(inner, outer string) bool {
	if len(inner) > len(outer) || !strings.Contains(outer, inner) {
		return false
	}
	return float64(utf8.RuneCountInString(inner)) >= ContainmentRatio*float64(utf8.RuneCountInString(outer))
}

// Set is an ordered collection of kept texts. A text is added only if it
// does not duplicate one already kept. Set is not safe for concurrent use.
type Set struct {
	threshold   float64
	minLength   int
	containment bool

	hashes map[uint64]struct{}
	texts  []string
}

// Option configures a Set.
type Option func(*Set)

// WithMinLength treats normalized texts shorter than n characters as duplicates.
func WithMinLength(n int) Option {
	return func(s *Set) {
		s.minLength = n
	}
}

// WithContainment also treats texts nested in, or nesting, a kept text as
// duplicates. The text kept first wins. Callers add texts in priority order,
// so a kept text is never evicted by a later one that contains it.
func WithContainment() Option {
	return func(s *Set) {
		s.containment = true
	}
}

// NewSet returns an empty Set using the given similarity threshold.
func NewSet(threshold float64, opts ...Option) *Set {
	s := &Set{
		threshold: threshold,
		minLength: 1,
		hashes:    make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add keeps text unless it duplicates a kept text and reports whether it was kept.
func (s *Set) Add(text string) bool {
	n := difflib.Normalize(text)
	if s.duplicate(n) {
		return false
	}
	s.hashes[xxhash.Sum64String(n)] = struct{}{}
	s.texts = append(s.texts, n)
	return true
}

// Contains reports whether text duplicates a kept text.
func (s *Set) Contains(text string) bool {
	return s.duplicate(difflib.Normalize(text))
}

// Len returns the number of kept texts.
func (s *Set) Len() int {
	return len(s.texts)
}

func (s *Set) duplicate(n string) bool {
	if _, ok := s.hashes[xxhash.Sum64String(n)]; ok {
		return true
	}
	if s.containment {
		if contained, evict := containment(n, s.texts); contained || evict >= 0 {
			return true
		}
	}
	return isDuplicate(n, s.texts, s.threshold, s.minLength)
}
