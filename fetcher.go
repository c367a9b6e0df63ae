package harvest

import (
	"context"
	"time"
)

// RawDocument is the HTML of one fetched page together with the status
// metadata reported by the fetcher.
type RawDocument struct {
	URL           string
	HTML          string
	StatusCode    int
	FetchDuration time.Duration
}

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url. The context deadline is the
	// fetch's timeout budget; implementations must stop when it expires.
	Fetch(ctx context.Context, url string) (*RawDocument, error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter paces requests to the same host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
