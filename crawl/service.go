package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/htmltomarkdown"
	"github.com/fwojciec/harvest/pipeline"
	"github.com/google/uuid"
)

// Service runs the extraction pipelines over single URLs and batches with
// the limits of Config.
type Service struct {
	Fetcher   harvest.Fetcher
	Limiter   harvest.DomainLimiter
	Converter harvest.Converter
	Config    harvest.Config

	// Decorate, if set, wraps every pipeline before it runs.
	Decorate func(harvest.Pipeline) harvest.Pipeline
}

// NewService returns a Service using DefaultConfig, a HostThrottle at the
// configured rate and the html-to-markdown converter.
func NewService(fetcher harvest.Fetcher) *Service {
	cfg := harvest.DefaultConfig()
	return &Service{
		Fetcher:   fetcher,
		Limiter:   NewHostThrottle(cfg.RequestsPerSecond),
		Converter: htmltomarkdown.NewConverter(),
		Config:    cfg,
	}
}

// Batch is the outcome of a batch run. Results are in input order and
// each carries the batch ID in its metadata.
type Batch struct {
	ID      string                 `json:"batchId"`
	Results []*harvest.CrawlResult `json:"results"`
}

// RunArrayExtraction extracts the requested arrays from one URL.
func (s *Service) RunArrayExtraction(ctx context.Context, url string, req harvest.ArrayRequest) *harvest.CrawlResult {
	p := pipeline.NewArrayPipeline(req, s.Config.MaxArraySelectors)
	return s.crawler(s.Config.ArrayTimeout).CrawlOne(ctx, url, s.decorate(p))
}

// RunArrayExtractionBatch extracts the requested arrays from every URL.
// An invalid batch or request returns EINVALID before anything is fetched.
// maxConcurrent is capped by Config; zero selects the default.
func (s *Service) RunArrayExtractionBatch(ctx context.Context, urls []string, req harvest.ArrayRequest, maxConcurrent int) (*Batch, error) {
	p := pipeline.NewArrayPipeline(req, s.Config.MaxBatchArraySelectors)
	n := concurrency(maxConcurrent, s.Config.ArrayConcurrency, s.Config.MaxArrayConcurrency)
	return s.batch(ctx, urls, p, s.Config.ArrayTimeout, n)
}

// RunSelectiveExtraction extracts merged content sections from one URL.
func (s *Service) RunSelectiveExtraction(ctx context.Context, url string, req harvest.SelectiveRequest) *harvest.CrawlResult {
	p := pipeline.NewSelectivePipeline(req, s.Config.MaxSelectiveSelectors, s.Config.MaxContentLength)
	return s.crawler(s.Config.SelectiveTimeout).CrawlOne(ctx, url, s.decorate(p))
}

// RunSelectiveExtractionBatch extracts merged content sections from every
// URL. It validates like RunArrayExtractionBatch.
func (s *Service) RunSelectiveExtractionBatch(ctx context.Context, urls []string, req harvest.SelectiveRequest, maxConcurrent int) (*Batch, error) {
	p := pipeline.NewSelectivePipeline(req, s.Config.MaxSelectiveSelectors, s.Config.MaxContentLength)
	n := concurrency(maxConcurrent, s.Config.SelectiveConcurrency, s.Config.MaxSelectiveConcurrency)
	return s.batch(ctx, urls, p, s.Config.SelectiveTimeout, n)
}

// RunContentOnlyExtraction extracts the main text of one URL with the
// built-in content selectors. req must not name selectors.
func (s *Service) RunContentOnlyExtraction(ctx context.Context, url string, req harvest.SelectiveRequest) *harvest.CrawlResult {
	req.ContentOnly = true
	return s.RunSelectiveExtraction(ctx, url, req)
}

// RunContentOnlyExtractionBatch extracts the main text of every URL.
func (s *Service) RunContentOnlyExtractionBatch(ctx context.Context, urls []string, req harvest.SelectiveRequest, maxConcurrent int) (*Batch, error) {
	req.ContentOnly = true
	return s.RunSelectiveExtractionBatch(ctx, urls, req, maxConcurrent)
}

// RunMarkdownCrawl renders the main content of one URL as Markdown.
func (s *Service) RunMarkdownCrawl(ctx context.Context, url string, req harvest.MarkdownRequest) *harvest.CrawlResult {
	p := pipeline.NewMarkdownPipeline(req, s.Converter, s.Config.MaxMarkdownLength)
	return s.crawler(s.Config.MarkdownTimeout).CrawlOne(ctx, url, s.decorate(p))
}

// RunMarkdownCrawlBatch renders the main content of every URL as Markdown.
func (s *Service) RunMarkdownCrawlBatch(ctx context.Context, urls []string, req harvest.MarkdownRequest, maxConcurrent int) (*Batch, error) {
	p := pipeline.NewMarkdownPipeline(req, s.Converter, s.Config.MaxMarkdownLength)
	n := concurrency(maxConcurrent, s.Config.MarkdownConcurrency, s.Config.MaxMarkdownConcurrency)
	return s.batch(ctx, urls, p, s.Config.MarkdownTimeout, n)
}

// RunProductExtraction lists the products on one URL.
func (s *Service) RunProductExtraction(ctx context.Context, url string, req harvest.ProductRequest) *harvest.CrawlResult {
	p := pipeline.NewProductPipeline(req, s.Config.MaxProducts)
	return s.crawler(s.Config.ProductTimeout).CrawlOne(ctx, url, s.decorate(p))
}

// RunProductExtractionBatch lists the products on every URL. Batches run
// with the array pipeline's worker counts.
func (s *Service) RunProductExtractionBatch(ctx context.Context, urls []string, req harvest.ProductRequest, maxConcurrent int) (*Batch, error) {
	p := pipeline.NewProductPipeline(req, s.Config.MaxProducts)
	n := concurrency(maxConcurrent, s.Config.ArrayConcurrency, s.Config.MaxArrayConcurrency)
	return s.batch(ctx, urls, p, s.Config.ProductTimeout, n)
}

// RunStructureAnalysis suggests content and exclude selectors for one URL.
func (s *Service) RunStructureAnalysis(ctx context.Context, url string, req harvest.AnalyzeRequest) *harvest.CrawlResult {
	p := pipeline.NewAnalyzePipeline(req, s.Config.MaxSuggestions)
	return s.crawler(s.Config.AnalyzeTimeout).CrawlOne(ctx, url, s.decorate(p))
}

func (s *Service) batch(ctx context.Context, urls []string, p harvest.Pipeline, timeout time.Duration, n int) (*Batch, error) {
	if err := harvest.ValidateBatch(urls, s.Config.MaxBatchURLs); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	results := s.crawler(timeout).CrawlMany(ctx, urls, s.decorate(p), n)
	for _, r := range results {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any, 1)
		}
		r.Metadata["batch_id"] = id
	}
	return &Batch{ID: id, Results: results}, nil
}

func (s *Service) crawler(timeout time.Duration) *Crawler {
	return &Crawler{Fetcher: s.Fetcher, Limiter: s.Limiter, Timeout: timeout}
}

func (s *Service) decorate(p harvest.Pipeline) harvest.Pipeline {
	if s.Decorate == nil {
		return p
	}
	return s.Decorate(p)
}

// concurrency returns n bounded to [1, limit], or def when n is not positive.
func concurrency(n, def, limit int) int {
	if n <= 0 {
		n = def
	}
	if limit > 0 && n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}
