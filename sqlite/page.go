package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/harvest"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// CachedPage is a stored fetch result.
type CachedPage struct {
	Document    *harvest.RawDocument
	ContentHash string
	FetchedAt   time.Time
}

// PageService stores fetched pages keyed by URL.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// FindPage returns the stored page for url, or ENOTFOUND.
func (s *PageService) FindPage(ctx context.Context, url string) (*CachedPage, error) {
	var page CachedPage
	var doc harvest.RawDocument
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, html, status_code, content_hash, fetched_at
		FROM pages WHERE url = ?
	`, url).Scan(&doc.URL, &doc.HTML, &doc.StatusCode, &page.ContentHash, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "page not cached: %s", url)
	}
	if err != nil {
		return nil, err
	}

	page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	page.Document = &doc
	return &page, nil
}

// SavePage stores doc as fetched at fetchedAt, replacing any earlier copy.
func (s *PageService) SavePage(ctx context.Context, doc *harvest.RawDocument, fetchedAt time.Time) error {
	if doc.URL == "" {
		return harvest.Errorf(harvest.EINVALID, "page URL required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (url, html, status_code, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			html = excluded.html,
			status_code = excluded.status_code,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, doc.URL, doc.HTML, doc.StatusCode, hashContent(doc.HTML), fetchedAt.UTC().Format(timeLayout))
	return err
}

// DeletePagesBefore removes pages fetched before t and returns how many
// were removed.
func (s *PageService) DeletePagesBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE fetched_at < ?", t.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
