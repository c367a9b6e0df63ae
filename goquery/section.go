package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/dedupe"
)

// DefaultContentSelectors are tried in order when no requested selector
// yields content.
var DefaultContentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	".post-content",
	".article-content",
	".entry-content",
	".post-body",
	".article-body",
	"#content",
	"#main-content",
	"#article-content",
}

// boilerplateSelector matches page chrome removed before section extraction.
const boilerplateSelector = "nav, header, footer, aside, title"

// Section names used when the requested selectors yield nothing.
const (
	FallbackSectionName = "fallback"
	DefaultSectionName  = "default"
)

// ExtractSections returns the merged text of each selector as a section,
// in selector order. Selectors matching no text produce no section. Nested
// matches of one selector are merged so that text appears once. Images are
// dropped from section text.
//
// When no section has content, ExtractSections falls back to the first of
// DefaultContentSelectors with text, then to <body>, then to the whole
// document, so a fetched page always yields a section unless it has no
// text at all. Invalid selectors are skipped and returned as ESELECTOR
// errors.
func ExtractSections(doc *goquery.Document, selectors, exclude []string) ([]*harvest.ExtractedSection, []error) {
	work := workingCopy(doc)
	work.Find(boilerplateSelector).Remove()
	errs := removeAll(work, exclude)

	var sections []*harvest.ExtractedSection
	for i, sel := range selectors {
		m, err := Compile(sel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s := mergeMatches(work.FindMatcher(m))
		if s == nil {
			continue
		}
		s.SelectorName = fmt.Sprintf("selector_%d", i+1)
		s.SelectorUsed = sel
		sections = append(sections, s)
	}
	if len(sections) > 0 {
		return sections, errs
	}

	name := DefaultSectionName
	if len(selectors) > 0 {
		name = FallbackSectionName
	}
	return []*harvest.ExtractedSection{fallbackSection(work, name)}, errs
}

func fallbackSection(doc *goquery.Document, name string) *harvest.ExtractedSection {
	for _, sel := range DefaultContentSelectors {
		if s := mergeMatches(doc.Find(sel).First()); s != nil {
			s.SelectorName, s.SelectorUsed = name, sel
			return s
		}
	}
	if s := mergeMatches(doc.Find("body")); s != nil {
		s.SelectorName, s.SelectorUsed = name, "body"
		return s
	}
	text := ExtractText(doc.Selection, WithoutImages())
	return &harvest.ExtractedSection{
		SelectorName: name,
		SelectorUsed: "html",
		Content:      text,
		ElementCount: 1,
		WordCount:    harvest.WordCount(text),
	}
}

// mergeMatches joins the text of every match, dropping nested repeats.
// Returns nil when there is no text.
func mergeMatches(matches *goquery.Selection) *harvest.ExtractedSection {
	texts := make([]string, 0, matches.Length())
	matches.Each(func(_ int, el *goquery.Selection) {
		texts = append(texts, ExtractText(el, WithoutImages()))
	})
	texts = dedupe.Nested(texts)
	if len(texts) == 0 {
		return nil
	}
	content := strings.Join(texts, "\n\n")
	return &harvest.ExtractedSection{
		Content:      content,
		ElementCount: matches.Length(),
		WordCount:    harvest.WordCount(content),
	}
}
