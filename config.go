package harvest

import "time"

// Config holds the policy values shared by the pipelines and the crawl service.
type Config struct {
	// Per-fetch timeout budgets.
	ArrayTimeout     time.Duration
	SelectiveTimeout time.Duration
	MarkdownTimeout  time.Duration
	ProductTimeout   time.Duration
	AnalyzeTimeout   time.Duration

	// Selector caps per request.
	MaxArraySelectors      int
	MaxBatchArraySelectors int
	MaxSelectiveSelectors  int

	// MaxBatchURLs caps the number of URLs in one batch request.
	MaxBatchURLs int

	// Default and maximum worker counts for batch requests.
	ArrayConcurrency        int
	MaxArrayConcurrency     int
	SelectiveConcurrency    int
	MaxSelectiveConcurrency int
	MarkdownConcurrency     int
	MaxMarkdownConcurrency  int

	// MaxContentLength is the selective pipeline's default output cap.
	MaxContentLength int

	// MaxMarkdownLength is the markdown pipeline's default output cap.
	MaxMarkdownLength int

	// MaxProducts caps the products returned for one page.
	MaxProducts int

	// MaxSuggestions caps the selector suggestions of a structure analysis.
	MaxSuggestions int

	// RequestsPerSecond paces fetches to the same host. Zero disables pacing.
	RequestsPerSecond float64
}

// DefaultConfig returns the default policy values.
func DefaultConfig() Config {
	return Config{
		ArrayTimeout:            20 * time.Second,
		SelectiveTimeout:        15 * time.Second,
		MarkdownTimeout:         15 * time.Second,
		ProductTimeout:          45 * time.Second,
		AnalyzeTimeout:          25 * time.Second,
		MaxArraySelectors:       5,
		MaxBatchArraySelectors:  3,
		MaxSelectiveSelectors:   10,
		MaxBatchURLs:            10,
		ArrayConcurrency:        2,
		MaxArrayConcurrency:     3,
		SelectiveConcurrency:    3,
		MaxSelectiveConcurrency: 5,
		MarkdownConcurrency:     3,
		MaxMarkdownConcurrency:  3,
		MaxContentLength:        10000,
		MaxMarkdownLength:       5000,
		MaxProducts:             50,
		MaxSuggestions:          10,
		RequestsPerSecond:       2,
	}
}
