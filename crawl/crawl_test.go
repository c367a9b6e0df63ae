package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okPipeline() *mock.Pipeline {
	return &mock.Pipeline{
		NameFn:     func() string { return "test" },
		ValidateFn: func() error { return nil },
		ProcessFn: func(doc *harvest.RawDocument) (*harvest.Extraction, error) {
			return &harvest.Extraction{
				Title:     "Title of " + doc.URL,
				Content:   "content of " + doc.URL,
				WordCount: 3,
				Metadata:  map[string]any{"extraction_mode": "test"},
			}, nil
		},
	}
}

func staticFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*harvest.RawDocument, error) {
			return &harvest.RawDocument{URL: url, HTML: "<p>hi</p>", StatusCode: 200, FetchDuration: 42 * time.Millisecond}, nil
		},
	}
}

func TestCrawler_CrawlOne(t *testing.T) {
	t.Parallel()

	t.Run("returns successful result with crawl metadata", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher()}

		result := c.CrawlOne(context.Background(), "https://shop.example/a", okPipeline())

		require.True(t, result.Success)
		assert.Equal(t, "https://shop.example/a", result.URL)
		assert.Equal(t, "Title of https://shop.example/a", result.Title)
		assert.Equal(t, "content of https://shop.example/a", result.Content)
		assert.Equal(t, 3, result.WordCount)
		assert.Equal(t, "test", result.Metadata["extraction_mode"])
		assert.Equal(t, 200, result.Metadata["status_code"])
		assert.Equal(t, int64(42), result.Metadata["fetch_ms"])
		assert.NotEmpty(t, result.Metadata["content_hash"])
		assert.NotEmpty(t, result.Metadata["crawl_time"])
		assert.Empty(t, result.Error)
	})

	t.Run("trims surrounding whitespace from URL", func(t *testing.T) {
		t.Parallel()

		var fetched string
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*harvest.RawDocument, error) {
				fetched = url
				return &harvest.RawDocument{URL: url, HTML: "<p>hi</p>", StatusCode: 200}, nil
			},
		}
		c := &crawl.Crawler{Fetcher: f}

		result := c.CrawlOne(context.Background(), " https://shop.example/a\n", okPipeline())

		require.True(t, result.Success, result.Error)
		assert.Equal(t, "https://shop.example/a", fetched)
		assert.Equal(t, "https://shop.example/a", result.URL)
	})

	t.Run("rejects invalid URL without fetching", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Bool
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*harvest.RawDocument, error) {
				fetched.Store(true)
				return nil, errors.New("unexpected")
			},
		}}

		result := c.CrawlOne(context.Background(), "ftp://shop.example/a", okPipeline())

		assert.False(t, result.Success)
		assert.Equal(t, harvest.EINVALID, result.ErrorCode)
		assert.False(t, fetched.Load())
	})

	t.Run("rejects invalid request without fetching", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Bool
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*harvest.RawDocument, error) {
				fetched.Store(true)
				return nil, errors.New("unexpected")
			},
		}}
		p := okPipeline()
		p.ValidateFn = func() error { return harvest.Errorf(harvest.EINVALID, "too many selectors") }

		result := c.CrawlOne(context.Background(), "https://shop.example/a", p)

		assert.False(t, result.Success)
		assert.Equal(t, harvest.EINVALID, result.ErrorCode)
		assert.Equal(t, "too many selectors", result.Error)
		assert.False(t, fetched.Load())
	})

	t.Run("reports fetch failure", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*harvest.RawDocument, error) {
				return nil, errors.New("connection refused")
			},
		}}

		result := c.CrawlOne(context.Background(), "https://shop.example/a", okPipeline())

		assert.False(t, result.Success)
		assert.Equal(t, harvest.EFETCH, result.ErrorCode)
		assert.Contains(t, result.Error, "connection refused")
	})

	t.Run("reports timeout when fetch exceeds budget", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (*harvest.RawDocument, error) {
					<-ctx.Done()
					return nil, errors.New("navigation aborted")
				},
			},
			Timeout: 20 * time.Millisecond,
		}

		result := c.CrawlOne(context.Background(), "https://shop.example/slow", okPipeline())

		assert.False(t, result.Success)
		assert.Equal(t, harvest.ETIMEOUT, result.ErrorCode)
	})

	t.Run("does not retry failed fetches", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (*harvest.RawDocument, error) {
				calls.Add(1)
				return nil, errors.New("boom")
			},
		}}

		c.CrawlOne(context.Background(), "https://shop.example/a", okPipeline())

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("reports pipeline failure", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher()}
		p := okPipeline()
		p.ProcessFn = func(_ *harvest.RawDocument) (*harvest.Extraction, error) {
			return nil, errors.New("parse failure")
		}

		result := c.CrawlOne(context.Background(), "https://shop.example/a", p)

		assert.False(t, result.Success)
		assert.Equal(t, harvest.EINTERNAL, result.ErrorCode)
	})

	t.Run("recovers panic into internal error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher()}
		p := okPipeline()
		p.ProcessFn = func(_ *harvest.RawDocument) (*harvest.Extraction, error) {
			panic("nil map")
		}

		result := c.CrawlOne(context.Background(), "https://shop.example/a", p)

		assert.False(t, result.Success)
		assert.Equal(t, harvest.EINTERNAL, result.ErrorCode)
		assert.Contains(t, result.Error, "nil map")
	})

	t.Run("waits on limiter with the URL host", func(t *testing.T) {
		t.Parallel()

		var host string
		c := &crawl.Crawler{
			Fetcher: staticFetcher(),
			Limiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					host = domain
					return nil
				},
			},
		}

		result := c.CrawlOne(context.Background(), "https://shop.example:8443/a", okPipeline())

		require.True(t, result.Success)
		assert.Equal(t, "shop.example", host)
	})
}

func TestCrawler_CrawlMany(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 8)
		delays := make(map[string]time.Duration, len(urls))
		for i := range urls {
			urls[i] = fmt.Sprintf("https://shop.example/%d", i)
			// Later URLs finish first.
			delays[urls[i]] = time.Duration(len(urls)-i) * 5 * time.Millisecond
		}
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*harvest.RawDocument, error) {
				time.Sleep(delays[url])
				return &harvest.RawDocument{URL: url, StatusCode: 200}, nil
			},
		}}

		results := c.CrawlMany(context.Background(), urls, okPipeline(), 4)

		require.Len(t, results, len(urls))
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
			assert.True(t, r.Success)
		}
	})

	t.Run("isolates failures per URL", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://shop.example/a", "https://shop.example/fail", "not a url", "https://shop.example/b"}
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*harvest.RawDocument, error) {
				if url == "https://shop.example/fail" {
					return nil, errors.New("503")
				}
				return &harvest.RawDocument{URL: url, StatusCode: 200}, nil
			},
		}}

		results := c.CrawlMany(context.Background(), urls, okPipeline(), 2)

		require.Len(t, results, 4)
		assert.True(t, results[0].Success)
		assert.Equal(t, harvest.EFETCH, results[1].ErrorCode)
		assert.Equal(t, harvest.EINVALID, results[2].ErrorCode)
		assert.True(t, results[3].Success)
	})

	t.Run("bounds in-flight fetches", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		c := &crawl.Crawler{Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*harvest.RawDocument, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				return &harvest.RawDocument{URL: url, StatusCode: 200}, nil
			},
		}}
		urls := make([]string, 10)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://shop.example/%d", i)
		}

		results := c.CrawlMany(context.Background(), urls, okPipeline(), 3)

		require.Len(t, results, 10)
		assert.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("returns empty slice for no URLs", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher()}

		results := c.CrawlMany(context.Background(), nil, okPipeline(), 2)

		assert.Empty(t, results)
	})
}
