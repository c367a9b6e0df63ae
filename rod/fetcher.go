// Package rod implements harvest.Fetcher with headless Chrome, for pages
// that render their content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page load when the caller's context has
// no earlier deadline.
const DefaultFetchTimeout = 20 * time.Second

// Ensure Fetcher implements harvest.Fetcher at compile time.
var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a recycled headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager        *BrowserManager
	timeout        time.Duration
	managerOptions []ManagerOption
	closed         atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserOptions configures the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOptions = append(f.managerOptions, opts...)
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	m, err := NewBrowserManager(f.managerOptions...)
	if err != nil {
		return nil, err
	}
	f.manager = m
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the
// rendered HTML with the status code of the document response.
// Responses with status 400 and above return EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*harvest.RawDocument, error) {
	if f.closed.Load() {
		return nil, harvest.Errorf(harvest.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	begin := time.Now()

	browser, err := f.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer f.manager.Release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	waitResponse()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", url, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, harvest.Errorf(harvest.EFETCH, "HTTP %d for %s", status, url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	return &harvest.RawDocument{
		URL:           url,
		HTML:          html,
		StatusCode:    status,
		FetchDuration: time.Since(begin),
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
