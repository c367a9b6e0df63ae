package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/dedupe"
	"github.com/fwojciec/harvest/goquery"
)

// Ensure SelectivePipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*SelectivePipeline)(nil)

// truncationMarker is appended to content cut at the length limit.
const truncationMarker = "..."

// SelectivePipeline merges the text of candidate content regions into one
// document. Overlapping sections are resolved by selector rank and length,
// repeated sentences are removed within and across sections. In
// content-only mode the built-in content selectors are used and sections
// are joined without their selector labels.
type SelectivePipeline struct {
	Request harvest.SelectiveRequest

	// MaxSelectors caps the number of selectors. Zero means no cap.
	MaxSelectors int

	// DefaultMaxLength applies when the request sets no MaxLength.
	// Zero means no limit.
	DefaultMaxLength int
}

// NewSelectivePipeline returns a SelectivePipeline for req.
func NewSelectivePipeline(req harvest.SelectiveRequest, maxSelectors, defaultMaxLength int) *SelectivePipeline {
	return &SelectivePipeline{Request: req, MaxSelectors: maxSelectors, DefaultMaxLength: defaultMaxLength}
}

// Name returns "selective".
func (p *SelectivePipeline) Name() string {
	return "selective"
}

// Validate checks the request.
func (p *SelectivePipeline) Validate() error {
	return p.Request.Validate(p.MaxSelectors)
}

// Process validates the request and builds the merged content of doc.
func (p *SelectivePipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d, err := goquery.ParseHTML(doc.HTML)
	if err != nil {
		return nil, err
	}

	extracted, errs := goquery.ExtractSections(d, p.Request.Selectors, p.Request.ExcludeSelectors)
	ranked := dedupe.Sections(extracted, goquery.SelectorRank)

	// Each section loses its own repeats first, then the sentences already
	// emitted by higher priority sections.
	filter := dedupe.NewSentenceFilter()
	sections := make([]*harvest.ExtractedSection, 0, len(ranked))
	blocks := make([]string, 0, len(ranked))
	for _, s := range ranked {
		content := filter.Filter(dedupe.Sentences(s.Content))
		if content == "" {
			continue
		}
		c := *s
		c.Content = content
		c.WordCount = harvest.WordCount(content)
		sections = append(sections, &c)
		if p.Request.ContentOnly {
			blocks = append(blocks, content)
		} else {
			blocks = append(blocks, "["+c.SelectorUsed+"]\n"+content)
		}
	}

	content := truncate(strings.Join(blocks, "\n\n"), p.maxLength())

	mode := "default"
	switch {
	case p.Request.ContentOnly:
		mode = "content_only"
	case len(p.Request.Selectors) > 0:
		mode = "custom_selectors"
	}
	used := make([]string, 0, len(sections))
	for _, s := range sections {
		used = append(used, s.SelectorUsed)
	}

	metadata := map[string]any{
		"extraction_mode":        mode,
		"selectors_used":         used,
		"exclude_selectors_used": nonNil(p.Request.ExcludeSelectors),
		"total_sections":         len(sections),
		"sections_removed":       len(extracted) - len(sections),
		"content_length":         utf8.RuneCountInString(content),
		"original_html_length":   len(doc.HTML),
		"selector_errors":        len(errs),
	}
	if p.Request.ContentOnly {
		metadata["images_removed"] = true
		metadata["links_removed"] = true
	}
	if p.Request.ReturnSections {
		metadata["sections"] = sections
	}

	return &harvest.Extraction{
		Title:          goquery.Title(d),
		Content:        content,
		WordCount:      harvest.WordCount(content),
		Metadata:       metadata,
		SelectorErrors: errs,
	}, nil
}

func (p *SelectivePipeline) maxLength() int {
	if p.Request.MaxLength > 0 {
		return p.Request.MaxLength
	}
	return p.DefaultMaxLength
}

// truncate cuts s to n characters plus a marker. n <= 0 means no limit.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + truncationMarker
}
