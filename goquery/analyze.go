package goquery

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// PreviewLength caps the content preview of a structure analysis.
const PreviewLength = 200

type candidate struct {
	selector    string
	description string
}

var contentCandidates = []candidate{
	{"main", "Main content area"},
	{"article", "Article content"},
	{`[role="main"]`, "Main landmark"},
	{".content", "Content class"},
	{".post-content", "Post content area"},
	{".article-content", "Article content class"},
	{".entry-content", "Blog entry content"},
	{".post-body", "Post body"},
	{".article-body", "Article body"},
	{".story-content", "Story content"},
	{".documentation", "Documentation content"},
	{"#content", "Content ID"},
	{"#main-content", "Main content ID"},
	{"#article-content", "Article content ID"},
}

var excludeCandidates = []candidate{
	{"nav", "Navigation menus"},
	{"header", "Page header"},
	{"footer", "Footer content"},
	{"aside", "Complementary content"},
	{".sidebar", "Sidebar content"},
	{".advertisement", "Advertisement blocks"},
	{".ad", "Advertisement blocks"},
	{".comments", "Comment threads"},
	{".related", "Related links"},
	{".cookie-banner", "Cookie notices"},
	{".newsletter", "Newsletter sign-up"},
	{".social-share", "Social sharing buttons"},
}

// AnalyzeStructure measures which well-known content selectors and
// exclude candidates match doc. Content suggestions are ordered by text
// length, longest first, and capped at limit; limit <= 0 means no cap. Only
// selectors that match text are suggested. The preview is the page's main
// content text cut at PreviewLength characters with "..." appended.
func AnalyzeStructure(doc *goquery.Document, limit int) *harvest.StructureAnalysis {
	work := workingCopy(doc)
	work.Find(noiseSelector).Remove()

	a := &harvest.StructureAnalysis{
		SuggestedSelectors: []*harvest.SelectorSuggestion{},
		ExcludeSuggestions: []*harvest.SelectorSuggestion{},
	}
	for _, c := range excludeCandidates {
		if n := work.Find(c.selector).Length(); n > 0 {
			a.ExcludeSuggestions = append(a.ExcludeSuggestions, &harvest.SelectorSuggestion{
				Selector:    c.selector,
				Description: c.description,
				Matches:     n,
			})
		}
	}

	work.Find(boilerplateSelector).Remove()
	for _, c := range contentCandidates {
		matches := work.Find(c.selector)
		if matches.Length() == 0 {
			continue
		}
		n := utf8.RuneCountInString(collapse(matches.Text()))
		if n == 0 {
			continue
		}
		a.SuggestedSelectors = append(a.SuggestedSelectors, &harvest.SelectorSuggestion{
			Selector:    c.selector,
			Description: c.description,
			Matches:     matches.Length(),
			TextLength:  n,
		})
	}
	sort.SliceStable(a.SuggestedSelectors, func(i, j int) bool {
		return a.SuggestedSelectors[i].TextLength > a.SuggestedSelectors[j].TextLength
	})
	if limit > 0 && len(a.SuggestedSelectors) > limit {
		a.SuggestedSelectors = a.SuggestedSelectors[:limit]
	}

	sections, _ := ExtractSections(doc, nil, nil)
	text := sections[0].Content
	a.WordCount = harvest.WordCount(text)
	a.ContentPreview = preview(text)
	return a
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= PreviewLength {
		return s
	}
	return string([]rune(s)[:PreviewLength]) + "..."
}
