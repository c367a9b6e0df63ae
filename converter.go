package harvest

// Converter renders an HTML fragment as Markdown.
type Converter interface {
	// Convert returns the Markdown for html. Empty input is EINVALID.
	Convert(html string) (string, error)
}
