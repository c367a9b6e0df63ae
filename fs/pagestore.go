// Package fs stores crawl results as text files.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
	"gopkg.in/yaml.v3"
)

// Ensure FileStore implements harvest.ResultStore at compile time.
var _ harvest.ResultStore = (*FileStore)(nil)

// FileStore writes successful results to baseDir/name with atomic update
// semantics. Files are saved to baseDir/name.tmp and moved on Commit.
type FileStore struct {
	baseDir string
	name    string

	// Now returns the crawl date written to each file. Defaults to time.Now.
	Now func() time.Time
}

// NewFileStore creates a new FileStore.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes result to the temp directory. Failed results are skipped.
func (s *FileStore) Save(ctx context.Context, result *harvest.CrawlResult) error {
	if !result.Success {
		return nil
	}

	relPath, err := URLToPath(result.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatResult(result, s.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the final directory with the temp directory.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort removes the temp directory.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://shop.example/list/desks → shop.example/list/desks.txt
// URLs with a query get a hash suffix so that they don't collide.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", harvest.Errorf(harvest.EINVALID, "URL has no host: %s", rawURL)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", harvest.Errorf(harvest.EINVALID, "path traversal in URL: %s", rawURL)
		}
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	if u.RawQuery != "" {
		p += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}
	return filepath.FromSlash(path.Join(u.Host, p) + ".txt"), nil
}

type frontmatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title,omitempty"`
	Crawled   string `yaml:"crawled"`
	WordCount int    `yaml:"word_count"`
}

// FormatResult formats a result's content with YAML frontmatter.
func FormatResult(result *harvest.CrawlResult, crawled time.Time) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Source:    result.URL,
		Title:     result.Title,
		Crawled:   crawled.Format("2006-01-02"),
		WordCount: result.WordCount,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(result.Content)
	return b.String(), nil
}
