package harvest

import (
	"context"
	"errors"
)

// CrawlResult is the outcome of crawling one URL. Failures are reported
// in-band with Success set to false; zero matches is still a success.
type CrawlResult struct {
	Success   bool           `json:"success"`
	URL       string         `json:"url"`
	Title     string         `json:"title,omitempty"`
	Content   string         `json:"content,omitempty"`
	WordCount int            `json:"wordCount"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"errorCode,omitempty"`
}

// FailedResult returns an unsuccessful CrawlResult describing err.
func FailedResult(url string, err error) *CrawlResult {
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return &CrawlResult{
		URL:       url,
		Error:     msg,
		ErrorCode: ErrorCode(err),
	}
}

// Extraction is what a Pipeline produces from one document.
type Extraction struct {
	Title     string
	Content   string
	WordCount int
	Metadata  map[string]any

	// SelectorErrors lists the per-selector failures that were isolated
	// during extraction. They do not make the extraction fail.
	SelectorErrors []error
}

// Pipeline turns a fetched document into an Extraction.
type Pipeline interface {
	// Name identifies the pipeline in logs and metadata.
	Name() string

	// Validate checks the pipeline's request before anything is fetched.
	// Returns EINVALID for malformed requests.
	Validate() error

	// Process extracts content from doc. It performs no I/O.
	Process(doc *RawDocument) (*Extraction, error)
}

// ResultStore persists crawl results. Saved results become visible
// together on Commit; Abort discards them.
type ResultStore interface {
	Save(ctx context.Context, result *CrawlResult) error
	Commit() error
	Abort() error
}
