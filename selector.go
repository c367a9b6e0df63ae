package harvest

import "strings"

// SelectorSpec describes one named array to extract from a page.
type SelectorSpec struct {
	// Name identifies the resulting array.
	Name string `json:"name" yaml:"name"`

	// Selector matches the repeated elements, one item per match.
	Selector string `json:"selector" yaml:"selector"`

	// SubSelectors maps field names to selectors evaluated inside each
	// matched element. Field names drive value resolution, see FieldKindOf.
	SubSelectors map[string]string `json:"subSelectors,omitempty" yaml:"sub_selectors"`

	// Limit keeps only the first Limit matches in document order.
	// Zero means no limit.
	Limit int `json:"limit,omitempty" yaml:"limit"`

	// ExcludeSelectors are removed from the document before matching.
	ExcludeSelectors []string `json:"excludeSelectors,omitempty" yaml:"exclude_selectors"`
}

// Validate returns EINVALID for a blank name or selector, a negative
// limit or a blank sub-selector or exclude entry.
func (s *SelectorSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return Errorf(EINVALID, "selector name required")
	}
	if strings.TrimSpace(s.Selector) == "" {
		return Errorf(EINVALID, "selector required for %q", s.Name)
	}
	if s.Limit < 0 {
		return Errorf(EINVALID, "limit for %q must be a positive integer", s.Name)
	}
	for field, sel := range s.SubSelectors {
		if strings.TrimSpace(field) == "" {
			return Errorf(EINVALID, "empty sub-selector field name in %q", s.Name)
		}
		if strings.TrimSpace(sel) == "" {
			return Errorf(EINVALID, "sub-selector %q in %q is empty", field, s.Name)
		}
	}
	for _, ex := range s.ExcludeSelectors {
		if strings.TrimSpace(ex) == "" {
			return Errorf(EINVALID, "empty exclude selector in %q", s.Name)
		}
	}
	return nil
}

// FieldKind determines how a sub-selector value is resolved.
type FieldKind int

const (
	// FieldText fields hold normalized element text.
	FieldText FieldKind = iota
	// FieldImage fields hold absolute image URLs.
	FieldImage
	// FieldLink fields hold absolute anchor URLs.
	FieldLink
)

// FieldKindOf classifies a sub-selector field by its name, case-insensitively.
func FieldKindOf(name string) FieldKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "image", "img", "picture", "photo":
		return FieldImage
	case "link", "url", "href":
		return FieldLink
	default:
		return FieldText
	}
}
