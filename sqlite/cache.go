package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure CachingFetcher implements harvest.Fetcher at compile time.
var _ harvest.Fetcher = (*CachingFetcher)(nil)

// CachingFetcher serves pages from SQLite while they are younger than the
// TTL and fetches and stores them otherwise. Only successful fetches are
// stored.
type CachingFetcher struct {
	next  harvest.Fetcher
	pages *PageService
	ttl   time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCachingFetcher wraps next with a page cache in db. A non-positive ttl
// keeps pages forever.
func NewCachingFetcher(next harvest.Fetcher, db *DB, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		next:  next,
		pages: NewPageService(db),
		ttl:   ttl,
		Now:   time.Now,
	}
}

// Fetch returns the cached page for url when fresh, otherwise fetches it
// with the wrapped fetcher and stores the result. Cached documents report
// a zero FetchDuration.
//
// Cache failures never fail a fetch: a lookup error falls through to the
// wrapped fetcher and a save error still returns the fetched document.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (*harvest.RawDocument, error) {
	if page, err := f.pages.FindPage(ctx, url); err == nil && f.fresh(page) {
		doc := *page.Document
		return &doc, nil
	}

	doc, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	stored := *doc
	stored.URL = url
	_ = f.pages.SavePage(ctx, &stored, f.Now())
	return doc, nil
}

// Prune removes pages that are no longer fresh and returns how many were
// removed. It does nothing when pages are kept forever.
func (f *CachingFetcher) Prune(ctx context.Context) (int, error) {
	if f.ttl <= 0 {
		return 0, nil
	}
	return f.pages.DeletePagesBefore(ctx, f.Now().Add(-f.ttl))
}

// Close closes the wrapped fetcher. The database is owned by the caller.
func (f *CachingFetcher) Close() error {
	return f.next.Close()
}

func (f *CachingFetcher) fresh(page *CachedPage) bool {
	return f.ttl <= 0 || f.Now().Sub(page.FetchedAt) < f.ttl
}
