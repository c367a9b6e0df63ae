package harvest

import (
	"fmt"
	"strings"
)

// SelectorSuggestion is a selector found to match on an analyzed page.
type SelectorSuggestion struct {
	Selector    string `json:"selector"`
	Description string `json:"description"`
	Matches     int    `json:"matches"`

	// TextLength is the number of characters of text under the matches.
	TextLength int `json:"textLength"`
}

// StructureAnalysis describes where a page keeps its content and which
// elements are worth excluding.
type StructureAnalysis struct {
	ContentPreview     string                `json:"contentPreview"`
	WordCount          int                   `json:"wordCount"`
	SuggestedSelectors []*SelectorSuggestion `json:"suggestedSelectors"`
	ExcludeSuggestions []*SelectorSuggestion `json:"excludeSuggestions"`
}

// FormatAnalysis renders the suggestions, one per line.
func FormatAnalysis(a *StructureAnalysis) string {
	var b strings.Builder
	b.WriteString("Suggested selectors:")
	if len(a.SuggestedSelectors) == 0 {
		b.WriteString("\n  (none)")
	}
	for _, s := range a.SuggestedSelectors {
		fmt.Fprintf(&b, "\n  %s  %s (%d matches, %d chars)", s.Selector, s.Description, s.Matches, s.TextLength)
	}
	b.WriteString("\nExclude suggestions:")
	if len(a.ExcludeSuggestions) == 0 {
		b.WriteString("\n  (none)")
	}
	for _, s := range a.ExcludeSuggestions {
		fmt.Fprintf(&b, "\n  %s  %s (%d matches)", s.Selector, s.Description, s.Matches)
	}
	if a.ContentPreview != "" {
		b.WriteString("\nPreview:\n" + a.ContentPreview)
	}
	return b.String()
}
