package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
)

// Ensure MarkdownPipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*MarkdownPipeline)(nil)

// MarkdownPipeline renders a page's main content region as Markdown. The
// region is chosen with the same fallback chain as the selective pipeline
// after page chrome and the exclude selectors are removed.
type MarkdownPipeline struct {
	Request   harvest.MarkdownRequest
	Converter harvest.Converter

	// DefaultMaxLength applies when the request sets no MaxLength.
	// Zero means no limit.
	DefaultMaxLength int
}

// NewMarkdownPipeline returns a MarkdownPipeline for req.
func NewMarkdownPipeline(req harvest.MarkdownRequest, conv harvest.Converter, defaultMaxLength int) *MarkdownPipeline {
	return &MarkdownPipeline{Request: req, Converter: conv, DefaultMaxLength: defaultMaxLength}
}

// Name returns "markdown".
func (p *MarkdownPipeline) Name() string {
	return "markdown"
}

// Validate checks the request.
func (p *MarkdownPipeline) Validate() error {
	return p.Request.Validate()
}

// Process validates the request and converts the main content of doc.
// Output over the length limit is cut without a marker.
func (p *MarkdownPipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d, err := goquery.ParseHTML(doc.HTML)
	if err != nil {
		return nil, err
	}

	region, errs := goquery.MainContent(d, doc.URL, p.Request.ExcludeSelectors)

	var content string
	if strings.TrimSpace(region.HTML) != "" {
		if content, err = p.Converter.Convert(region.HTML); err != nil {
			return nil, err
		}
	}
	full := utf8.RuneCountInString(content)
	if n := p.maxLength(); n > 0 && full > n {
		content = string([]rune(content)[:n])
	}

	return &harvest.Extraction{
		Title:     goquery.Title(d),
		Content:   content,
		WordCount: harvest.WordCount(content),
		Metadata: map[string]any{
			"extraction_mode":        "markdown",
			"content_selector":       region.Selector,
			"exclude_selectors_used": nonNil(p.Request.ExcludeSelectors),
			"content_length":         utf8.RuneCountInString(content),
			"markdown_length":        full,
			"truncated":              full > utf8.RuneCountInString(content),
			"original_html_length":   len(doc.HTML),
			"selector_errors":        len(errs),
		},
		SelectorErrors: errs,
	}, nil
}

func (p *MarkdownPipeline) maxLength() int {
	if p.Request.MaxLength > 0 {
		return p.Request.MaxLength
	}
	return p.DefaultMaxLength
}
