// Package goquery implements HTML text normalization, URL resolution and
// selector-driven extraction using goquery and cascadia.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/harvest"
)

// MaxTitleLength caps the page title length in characters.
const MaxTitleLength = 200

// ParseHTML parses an HTML document.
func ParseHTML(s string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// Compile compiles a CSS selector. goquery's Find matches nothing for a
// malformed selector, so selectors are compiled with cascadia to surface
// the syntax error as ESELECTOR.
func Compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, harvest.Errorf(harvest.ESELECTOR, "invalid selector %q: %v", selector, err)
	}
	return sel, nil
}

// workingCopy returns a detached deep copy of doc.
func workingCopy(doc *goquery.Document) *goquery.Document {
	return goquery.NewDocumentFromNode(doc.Selection.Clone().Get(0))
}

// removeAll removes the elements matching each selector from doc. Invalid
// selectors are skipped and returned as errors.
func removeAll(doc *goquery.Document, selectors []string) []error {
	var errs []error
	for _, s := range selectors {
		m, err := Compile(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc.FindMatcher(m).Remove()
	}
	return errs
}

// Title returns the page title, falling back to og:title and then the
// first <h1>, truncated to MaxTitleLength characters.
func Title(doc *goquery.Document) string {
	title := collapse(doc.Find("title").First().Text())
	if title == "" {
		title = collapse(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if title == "" {
		title = collapse(doc.Find("h1").First().Text())
	}
	return truncate(title, MaxTitleLength)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
