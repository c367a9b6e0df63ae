package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Region is the markup of a page's main content area.
type Region struct {
	// Selector is the content selector that matched, "body" or "html".
	Selector string
	HTML     string
}

// MainContent returns the first of DefaultContentSelectors with text,
// falling back to <body> and then the whole document. Page chrome, noise
// elements and the exclude selectors are removed first. Link targets and
// image sources are made absolute against baseURL, lazy-loaded images
// getting their real source. Invalid exclude selectors are skipped and
// returned as ESELECTOR errors.
func MainContent(doc *goquery.Document, baseURL string, exclude []string) (*Region, []error) {
	work := workingCopy(doc)
	work.Find(boilerplateSelector).Remove()
	work.Find(noiseSelector).Remove()
	errs := removeAll(work, exclude)

	region, used := work.Selection, "html"
	for _, sel := range DefaultContentSelectors {
		if m := work.Find(sel).First(); strings.TrimSpace(m.Text()) != "" {
			region, used = m, sel
			break
		}
	}
	if used == "html" {
		if body := work.Find("body"); body.Length() > 0 {
			region, used = body, "body"
		}
	}

	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		a.SetAttr("href", ResolveURL(baseURL, a.AttrOr("href", "")))
	})
	region.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src := firstAttr(img, imageAttrs); src != "" {
			img.SetAttr("src", ResolveURL(baseURL, src))
		}
	})

	// Rendering into memory does not fail.
	markup, _ := region.Html()
	return &Region{Selector: used, HTML: strings.TrimSpace(markup)}, errs
}
