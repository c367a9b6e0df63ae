package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
)

// Selector ranks, highest first.
const (
	RankID      = 3
	RankClass   = 2
	RankElement = 1
)

// SelectorRank scores a selector in three tiers: RankID if any part uses
// an ID, RankClass if any part uses a class, attribute or pseudo-class,
// RankElement otherwise. For selector groups the best member counts.
// This is a coarse ordering, not CSS specificity.
func SelectorRank(selector string) int {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return rankByText(selector)
	}
	rank := RankElement
	for _, sel := range group {
		spec := sel.Specificity()
		switch {
		case spec[0] > 0:
			return RankID
		case spec[1] > 0:
			rank = RankClass
		}
	}
	return rank
}

func rankByText(selector string) int {
	switch {
	case strings.Contains(selector, "#"):
		return RankID
	case strings.ContainsAny(selector, ".[:"):
		return RankClass
	default:
		return RankElement
	}
}
