package harvest

import (
	"fmt"
	"sort"
	"strings"
)

// Format selects how extracted arrays are rendered into CrawlResult.Content.
type Format string

const (
	// FormatStructured renders a labeled block per array listing every
	// item with its fields.
	FormatStructured Format = "structured"
	// FormatFlat renders every item's main content separated by blank lines.
	FormatFlat Format = "flat"
	// FormatSummary renders one count line per array without content.
	FormatSummary Format = "summary"
)

// ParseFormat validates a format name. An empty name selects FormatStructured.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatStructured, nil
	case FormatStructured, FormatFlat, FormatSummary:
		return f, nil
	default:
		return "", Errorf(EINVALID, "unknown format %q (want structured, flat or summary)", s)
	}
}

// FormatArrays renders arrays in the given format, preserving array order
// and item order.
func FormatArrays(arrays []*ExtractedArray, f Format) string {
	switch f {
	case FormatFlat:
		return formatFlat(arrays)
	case FormatSummary:
		return formatSummary(arrays)
	default:
		return formatStructured(arrays)
	}
}

func formatStructured(arrays []*ExtractedArray) string {
	var parts []string
	for _, a := range arrays {
		if len(a.Items) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("=== %s (%d items) ===", strings.ToUpper(a.SelectorName), len(a.Items)))
		for i, item := range a.Items {
			var b strings.Builder
			fmt.Fprintf(&b, "\n[Item %d]\n%s", i+1, item.MainContent)
			for _, name := range sortedFieldNames(item.Fields) {
				v := item.Fields[name]
				if v.String() == "" {
					continue
				}
				fmt.Fprintf(&b, "\n%s: %s", name, v.String())
			}
			parts = append(parts, b.String())
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

func formatFlat(arrays []*ExtractedArray) string {
	var parts []string
	for _, a := range arrays {
		for _, item := range a.Items {
			if item.MainContent == "" {
				continue
			}
			parts = append(parts, item.MainContent)
		}
	}
	return strings.Join(parts, "\n\n")
}

func formatSummary(arrays []*ExtractedArray) string {
	lines := make([]string, 0, len(arrays))
	for _, a := range arrays {
		lines = append(lines, fmt.Sprintf("%s: %d items found with selector '%s'", a.SelectorName, len(a.Items), a.SelectorUsed))
	}
	return strings.Join(lines, "\n")
}

func sortedFieldNames(fields map[string]FieldValue) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
