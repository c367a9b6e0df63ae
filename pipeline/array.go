// Package pipeline turns fetched documents into extractions: ordered,
// deduplicated arrays of repeated items, or merged content sections.
package pipeline

import (
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/dedupe"
	"github.com/fwojciec/harvest/goquery"
)

// Ensure ArrayPipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*ArrayPipeline)(nil)

// ArrayPipeline extracts one ordered array of items per SelectorSpec,
// removes duplicate items and renders the arrays in the requested format.
type ArrayPipeline struct {
	Request harvest.ArrayRequest

	// MaxSelectors caps the number of specs. Zero means no cap.
	MaxSelectors int
}

// NewArrayPipeline returns an ArrayPipeline for req.
func NewArrayPipeline(req harvest.ArrayRequest, maxSelectors int) *ArrayPipeline {
	return &ArrayPipeline{Request: req, MaxSelectors: maxSelectors}
}

// Name returns "array".
func (p *ArrayPipeline) Name() string {
	return "array"
}

// Validate checks the request.
func (p *ArrayPipeline) Validate() error {
	return p.Request.Validate(p.MaxSelectors)
}

// Process validates the request, extracts arrays from doc, deduplicates
// each array's items and formats the result.
func (p *ArrayPipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	format, err := harvest.ParseFormat(string(p.Request.Format))
	if err != nil {
		return nil, err
	}

	d, err := goquery.ParseHTML(doc.HTML)
	if err != nil {
		return nil, err
	}

	extracted, errs := goquery.ExtractArrays(d, doc.URL, p.Request.Selectors, p.Request.ExcludeSelectors)

	arrays := make([]*harvest.ExtractedArray, 0, len(extracted))
	names := make([]string, 0, len(extracted))
	successful := []string{}
	var words, total, removed int
	for _, a := range extracted {
		a = dedupe.Array(a)
		arrays = append(arrays, a)
		names = append(names, a.SelectorName)
		if a.Count > 0 {
			successful = append(successful, a.SelectorName)
		}
		for _, item := range a.Items {
			words += item.WordCount
		}
		total += a.Count
		removed += a.DuplicatesRemoved
	}

	return &harvest.Extraction{
		Title:     goquery.Title(d),
		Content:   harvest.FormatArrays(arrays, format),
		WordCount: words,
		Metadata: map[string]any{
			"extraction_mode":        "array_based",
			"arrays":                 arrays,
			"array_selectors_used":   names,
			"exclude_selectors_used": nonNil(p.Request.ExcludeSelectors),
			"format_output":          string(format),
			"total_selectors":        len(arrays),
			"total_items_extracted":  total,
			"successful_selectors":   successful,
			"duplicates_removed":     removed,
			"selector_errors":        len(errs),
			"original_html_length":   len(doc.HTML),
		},
		SelectorErrors: errs,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
