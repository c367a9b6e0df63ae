package harvest

import (
	"encoding/json"
	"strings"
)

// ExtractedItem is one repeated element extracted by an array selector.
type ExtractedItem struct {
	// Index is the item's position among retained items, 0 being the
	// topmost one in source order.
	Index       int                   `json:"index"`
	MainContent string                `json:"mainContent"`
	Fields      map[string]FieldValue `json:"fields,omitempty"`
	WordCount   int                   `json:"wordCount"`
	CharCount   int                   `json:"charCount"`
}

// FieldValue holds a sub-selector result: a single string when one element
// matched, a list when several did.
type FieldValue struct {
	Value  string
	Values []string
}

// Scalar returns a single-valued FieldValue.
func Scalar(s string) FieldValue {
	return FieldValue{Value: s}
}

// List returns a multi-valued FieldValue.
func List(values []string) FieldValue {
	return FieldValue{Values: values}
}

// IsList reports whether the value came from several matches.
func (v FieldValue) IsList() bool {
	return v.Values != nil
}

// String renders lists joined by " | ".
func (v FieldValue) String() string {
	if v.IsList() {
		return strings.Join(v.Values, " | ")
	}
	return v.Value
}

// MarshalJSON encodes scalars as strings and lists as arrays.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.IsList() {
		return json.Marshal(v.Values)
	}
	return json.Marshal(v.Value)
}

// ExtractedArray is the ordered result of one SelectorSpec.
type ExtractedArray struct {
	SelectorName         string           `json:"name"`
	SelectorUsed         string           `json:"selector"`
	Items                []*ExtractedItem `json:"items"`
	Count                int              `json:"count"`
	DeduplicationApplied bool             `json:"deduplicationApplied"`
	DuplicatesRemoved    int              `json:"duplicatesRemoved"`

	// Error is set when the selector itself failed. Sibling arrays are
	// unaffected.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the selector failed to compile or match.
func (a *ExtractedArray) Failed() bool {
	return a.Error != ""
}

// ExtractedSection is the merged free text captured by one selector.
type ExtractedSection struct {
	SelectorName string `json:"name"`
	SelectorUsed string `json:"selector"`
	Content      string `json:"content"`
	ElementCount int    `json:"elementCount"`
	WordCount    int    `json:"wordCount"`
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CharCount returns the number of characters in s.
func CharCount(s string) int {
	return len([]rune(s))
}
