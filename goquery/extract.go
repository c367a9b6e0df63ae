package goquery

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// MinItemLength is the main content length below which an item is discarded.
const MinItemLength = 15

// ExtractArrays applies each spec to doc and returns one array per spec,
// in spec order. Items are in document order and not deduplicated.
//
// Every spec works on its own copy of doc with the global exclude
// selectors and the spec's exclude selectors removed. A spec whose selector
// fails to compile yields an array with Error set; the other specs are
// unaffected. All selector failures are also returned as ESELECTOR errors.
// Invalid global exclude selectors are skipped.
func ExtractArrays(doc *goquery.Document, baseURL string, specs []harvest.SelectorSpec, exclude []string) ([]*harvest.ExtractedArray, []error) {
	var errs []error

	base := doc
	if len(exclude) > 0 {
		base = workingCopy(doc)
		errs = append(errs, removeAll(base, exclude)...)
	}

	arrays := make([]*harvest.ExtractedArray, 0, len(specs))
	for _, spec := range specs {
		a, err := extractArray(base, baseURL, spec)
		if err != nil {
			a = &harvest.ExtractedArray{
				SelectorName: spec.Name,
				SelectorUsed: spec.Selector,
				Items:        []*harvest.ExtractedItem{},
				Error:        harvest.ErrorMessage(err),
			}
			errs = append(errs, fmt.Errorf("%s: %w", spec.Name, err))
		}
		arrays = append(arrays, a)
	}
	return arrays, errs
}

func extractArray(doc *goquery.Document, baseURL string, spec harvest.SelectorSpec) (*harvest.ExtractedArray, error) {
	m, err := Compile(spec.Selector)
	if err != nil {
		return nil, err
	}
	fields, err := compileFields(spec.SubSelectors)
	if err != nil {
		return nil, err
	}

	work := doc
	if len(spec.ExcludeSelectors) > 0 {
		work = workingCopy(doc)
		if errs := removeAll(work, spec.ExcludeSelectors); len(errs) > 0 {
			return nil, errs[0]
		}
	}

	matches := work.FindMatcher(m)
	if spec.Limit > 0 && matches.Length() > spec.Limit {
		matches = matches.Slice(0, spec.Limit)
	}

	items := make([]*harvest.ExtractedItem, 0, matches.Length())
	matches.Each(func(_ int, el *goquery.Selection) {
		text := ExtractText(el)
		if utf8.RuneCountInString(text) < MinItemLength {
			return
		}
		item := &harvest.ExtractedItem{
			Index:       len(items),
			MainContent: text,
			WordCount:   harvest.WordCount(text),
			CharCount:   harvest.CharCount(text),
		}
		if len(fields) > 0 {
			item.Fields = make(map[string]harvest.FieldValue, len(fields))
			for _, f := range fields {
				item.Fields[f.name] = f.extract(el, baseURL)
			}
		}
		items = append(items, item)
	})

	return &harvest.ExtractedArray{
		SelectorName: spec.Name,
		SelectorUsed: spec.Selector,
		Items:        items,
		Count:        len(items),
	}, nil
}

// field is a compiled sub-selector.
type field struct {
	name    string
	kind    harvest.FieldKind
	matcher goquery.Matcher
}

func compileFields(subs map[string]string) ([]field, error) {
	fields := make([]field, 0, len(subs))
	for name, sel := range subs {
		m, err := Compile(sel)
		if err != nil {
			return nil, harvest.Errorf(harvest.ESELECTOR, "sub-selector %q: %s", name, harvest.ErrorMessage(err))
		}
		fields = append(fields, field{name: name, kind: harvest.FieldKindOf(name), matcher: m})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })
	return fields, nil
}

// extract resolves the field inside el. One match yields a scalar, several
// yield a list without repeated or empty values. No match, or several that
// all resolve to nothing, yields an empty scalar.
func (f field) extract(el *goquery.Selection, baseURL string) harvest.FieldValue {
	matches := el.FindMatcher(f.matcher)
	switch matches.Length() {
	case 0:
		return harvest.Scalar("")
	case 1:
		return harvest.Scalar(f.value(matches, baseURL))
	}

	seen := make(map[string]bool, matches.Length())
	values := make([]string, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		v := f.value(s, baseURL)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		values = append(values, v)
	})
	if len(values) == 0 {
		return harvest.Scalar("")
	}
	return harvest.List(values)
}

func (f field) value(sel *goquery.Selection, baseURL string) string {
	switch f.kind {
	case harvest.FieldImage:
		return imageURL(sel, baseURL)
	case harvest.FieldLink:
		return linkURL(sel, baseURL)
	default:
		return ExtractText(sel, WithoutImages())
	}
}
