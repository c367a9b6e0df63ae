package harvest

import (
	"net/url"
	"strings"
)

// ArrayRequest asks for one ordered array per SelectorSpec.
type ArrayRequest struct {
	Selectors        []SelectorSpec
	ExcludeSelectors []string
	Format           Format
}

// Validate returns EINVALID when the request is empty, has more than
// maxSelectors specs, repeats a name, contains an invalid spec or names an
// unknown format.
func (r *ArrayRequest) Validate(maxSelectors int) error {
	if len(r.Selectors) == 0 {
		return Errorf(EINVALID, "at least one array selector required")
	}
	if maxSelectors > 0 && len(r.Selectors) > maxSelectors {
		return Errorf(EINVALID, "maximum %d array selectors allowed, got %d", maxSelectors, len(r.Selectors))
	}
	seen := make(map[string]bool, len(r.Selectors))
	for i := range r.Selectors {
		spec := &r.Selectors[i]
		if err := spec.Validate(); err != nil {
			return err
		}
		if seen[spec.Name] {
			return Errorf(EINVALID, "duplicate selector name %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	if err := validateExcludes(r.ExcludeSelectors); err != nil {
		return err
	}
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	return nil
}

// SelectiveRequest asks for the merged text of candidate content regions.
// With no selectors, built-in content selectors are used.
type SelectiveRequest struct {
	Selectors        []string
	ExcludeSelectors []string

	// MaxLength caps the output length. Zero selects the configured default.
	MaxLength int

	// ReturnSections includes the per-selector sections in the metadata.
	ReturnSections bool

	// ContentOnly extracts the page's main text with the built-in content
	// selectors, without images or links. It excludes Selectors.
	ContentOnly bool
}

// Validate returns EINVALID when the request has more than maxSelectors
// selectors, an empty selector or a negative length.
func (r *SelectiveRequest) Validate(maxSelectors int) error {
	if r.ContentOnly && len(r.Selectors) > 0 {
		return Errorf(EINVALID, "content-only extraction takes no selectors")
	}
	if maxSelectors > 0 && len(r.Selectors) > maxSelectors {
		return Errorf(EINVALID, "maximum %d selectors allowed, got %d", maxSelectors, len(r.Selectors))
	}
	for _, sel := range r.Selectors {
		if strings.TrimSpace(sel) == "" {
			return Errorf(EINVALID, "empty selector")
		}
	}
	if r.MaxLength < 0 {
		return Errorf(EINVALID, "max length must not be negative")
	}
	return validateExcludes(r.ExcludeSelectors)
}

// MarkdownRequest asks for a page's main content region as Markdown.
type MarkdownRequest struct {
	ExcludeSelectors []string

	// MaxLength caps the output length. Zero selects the configured default.
	MaxLength int
}

// Validate returns EINVALID for an empty exclude selector or a negative length.
func (r *MarkdownRequest) Validate() error {
	if r.MaxLength < 0 {
		return Errorf(EINVALID, "max length must not be negative")
	}
	return validateExcludes(r.ExcludeSelectors)
}

// ProductRequest asks for the products listed on a page. Products are read
// from JSON-LD structured data first; the CSS selectors are used only when
// the page has none.
type ProductRequest struct {
	// ProductSelector matches one element per product. Empty disables the
	// CSS fallback.
	ProductSelector string

	// Field selectors, relative to the product element. Empty selects
	// built-in defaults.
	NameSelector  string
	PriceSelector string
	ImageSelector string
	LinkSelector  string

	// Limit caps the number of products. Zero selects the configured maximum.
	Limit int
}

// Validate returns EINVALID when a field selector is set without a product
// selector, a selector is blank or the limit is negative.
func (r *ProductRequest) Validate() error {
	fields := []string{r.NameSelector, r.PriceSelector, r.ImageSelector, r.LinkSelector}
	if strings.TrimSpace(r.ProductSelector) == "" {
		if r.ProductSelector != "" {
			return Errorf(EINVALID, "empty product selector")
		}
		for _, f := range fields {
			if f != "" {
				return Errorf(EINVALID, "field selectors require a product selector")
			}
		}
	}
	for _, f := range fields {
		if f != "" && strings.TrimSpace(f) == "" {
			return Errorf(EINVALID, "empty field selector")
		}
	}
	if r.Limit < 0 {
		return Errorf(EINVALID, "limit must not be negative")
	}
	return nil
}

// AnalyzeRequest asks for selector suggestions for a page.
type AnalyzeRequest struct {
	// MaxSuggestions caps the content selector suggestions. Zero selects
	// the default.
	MaxSuggestions int
}

// Validate returns EINVALID for a negative suggestion count.
func (r *AnalyzeRequest) Validate() error {
	if r.MaxSuggestions < 0 {
		return Errorf(EINVALID, "max suggestions must not be negative")
	}
	return nil
}

func validateExcludes(excludes []string) error {
	for _, ex := range excludes {
		if strings.TrimSpace(ex) == "" {
			return Errorf(EINVALID, "empty exclude selector")
		}
	}
	return nil
}

// ValidateURL returns EINVALID unless raw is an absolute http or https URL
// with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "invalid URL %q: missing host", raw)
	}
	return nil
}

// ValidateBatch returns EINVALID when urls is empty or longer than maxURLs.
// Individual URLs are validated per crawl so one bad URL does not fail the batch.
func ValidateBatch(urls []string, maxURLs int) error {
	if len(urls) == 0 {
		return Errorf(EINVALID, "at least one URL required")
	}
	if maxURLs > 0 && len(urls) > maxURLs {
		return Errorf(EINVALID, "maximum %d URLs allowed per batch, got %d", maxURLs, len(urls))
	}
	return nil
}
