// Package crawl fetches pages and runs them through extraction pipelines,
// one URL at a time or as bounded concurrent batches.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// Crawler fetches URLs and processes the documents with a Pipeline.
// Every failure is reported as an unsuccessful CrawlResult.
type Crawler struct {
	Fetcher harvest.Fetcher

	// Limiter paces fetches per host. Nil disables pacing.
	Limiter harvest.DomainLimiter

	// Timeout bounds each fetch. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// CrawlOne fetches rawURL and processes it with p. Surrounding whitespace
// is trimmed from rawURL. The URL and the pipeline's request are validated
// before anything is fetched. Fetch failures are not retried.
func (c *Crawler) CrawlOne(ctx context.Context, rawURL string, p harvest.Pipeline) (result *harvest.CrawlResult) {
	rawURL = strings.TrimSpace(rawURL)
	defer func() {
		if r := recover(); r != nil {
			result = harvest.FailedResult(rawURL, harvest.Errorf(harvest.EINTERNAL, "processing %s panicked: %v", rawURL, r))
		}
	}()

	if err := harvest.ValidateURL(rawURL); err != nil {
		return harvest.FailedResult(rawURL, err)
	}
	if err := p.Validate(); err != nil {
		return harvest.FailedResult(rawURL, err)
	}

	doc, err := c.fetch(ctx, rawURL)
	if err != nil {
		return harvest.FailedResult(rawURL, err)
	}

	ext, err := p.Process(doc)
	if err != nil {
		return harvest.FailedResult(rawURL, err)
	}

	metadata := make(map[string]any, len(ext.Metadata)+4)
	maps.Copy(metadata, ext.Metadata)
	metadata["crawl_time"] = time.Now().UTC().Format(time.RFC3339)
	metadata["fetch_ms"] = doc.FetchDuration.Milliseconds()
	metadata["status_code"] = doc.StatusCode
	metadata["content_hash"] = computeHash(ext.Content)

	return &harvest.CrawlResult{
		Success:   true,
		URL:       rawURL,
		Title:     ext.Title,
		Content:   ext.Content,
		WordCount: ext.WordCount,
		Metadata:  metadata,
	}
}

// CrawlMany crawls urls with at most maxConcurrent fetches in flight.
// Results are in the order of urls and one URL's failure never affects
// another's result.
func (c *Crawler) CrawlMany(ctx context.Context, urls []string, p harvest.Pipeline, maxConcurrent int) []*harvest.CrawlResult {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	results := make([]*harvest.CrawlResult, len(urls))

	var g errgroup.Group
	g.SetLimit(maxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.CrawlOne(ctx, u, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// fetch waits for the host's turn and fetches rawURL under the timeout.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (*harvest.RawDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, fetchError(ctx, rawURL, err)
		}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	begin := time.Now()
	doc, err := c.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fetchError(ctx, rawURL, err)
	}
	if doc == nil {
		return nil, harvest.Errorf(harvest.EFETCH, "fetch %s returned no document", rawURL)
	}
	if doc.FetchDuration == 0 {
		doc.FetchDuration = time.Since(begin)
	}
	return doc, nil
}

// fetchError maps a fetch failure to ETIMEOUT or EFETCH. Fetchers do not
// always wrap the context error, so the deadline of ctx is checked too.
func fetchError(ctx context.Context, rawURL string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		harvest.ErrorCode(err) == harvest.ETIMEOUT:
		return harvest.Errorf(harvest.ETIMEOUT, "fetch %s timed out", rawURL)
	case harvest.ErrorCode(err) == harvest.EFETCH:
		return err
	default:
		return harvest.Errorf(harvest.EFETCH, "fetch %s: %v", rawURL, err)
	}
}

func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
