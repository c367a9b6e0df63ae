package pipeline

import (
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
)

// Ensure AnalyzePipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*AnalyzePipeline)(nil)

// DefaultSuggestions is the number of content selector suggestions when
// the request sets none.
const DefaultSuggestions = 5

// AnalyzePipeline suggests content and exclude selectors for a page.
type AnalyzePipeline struct {
	Request harvest.AnalyzeRequest

	// MaxSuggestions caps the requested suggestion count. Zero means no cap.
	MaxSuggestions int
}

// NewAnalyzePipeline returns an AnalyzePipeline for req.
func NewAnalyzePipeline(req harvest.AnalyzeRequest, maxSuggestions int) *AnalyzePipeline {
	return &AnalyzePipeline{Request: req, MaxSuggestions: maxSuggestions}
}

// Name returns "analyze".
func (p *AnalyzePipeline) Name() string {
	return "analyze"
}

// Validate checks the request.
func (p *AnalyzePipeline) Validate() error {
	return p.Request.Validate()
}

// Process validates the request and analyzes the structure of doc.
func (p *AnalyzePipeline) Process(doc *harvest.RawDocument) (*harvest.Extraction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d, err := goquery.ParseHTML(doc.HTML)
	if err != nil {
		return nil, err
	}

	a := goquery.AnalyzeStructure(d, p.limit())
	return &harvest.Extraction{
		Title:     goquery.Title(d),
		Content:   harvest.FormatAnalysis(a),
		WordCount: a.WordCount,
		Metadata: map[string]any{
			"extraction_mode":      "structure_analysis",
			"analysis":             a,
			"suggested_selectors":  len(a.SuggestedSelectors),
			"exclude_suggestions":  len(a.ExcludeSuggestions),
			"original_html_length": len(doc.HTML),
		},
	}, nil
}

func (p *AnalyzePipeline) limit() int {
	n := p.Request.MaxSuggestions
	if n == 0 {
		n = DefaultSuggestions
	}
	if p.MaxSuggestions > 0 && n > p.MaxSuggestions {
		n = p.MaxSuggestions
	}
	return n
}
