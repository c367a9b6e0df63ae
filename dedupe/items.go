package dedupe

import "github.com/fwojciec/harvest"

// Items drops items whose main content duplicates an earlier item at
// ItemThreshold. The first occurrence wins and survivors keep their source
// order, re-indexed from zero. The input items are not modified.
func Items(items []*harvest.ExtractedItem) []*harvest.ExtractedItem {
	set := NewSet(ItemThreshold, WithMinLength(MinDuplicateLength))
	kept := make([]*harvest.ExtractedItem, 0, len(items))
	for _, item := range items {
		if !set.Add(item.MainContent) {
			continue
		}
		c := *item
		c.Index = len(kept)
		kept = append(kept, &c)
	}
	return kept
}

// Array applies Items to a and records the outcome on a copy.
func Array(a *harvest.ExtractedArray) *harvest.ExtractedArray {
	c := *a
	if a.Failed() {
		return &c
	}
	c.Items = Items(a.Items)
	c.Count = len(c.Items)
	c.DeduplicationApplied = true
	c.DuplicatesRemoved = len(a.Items) - len(c.Items)
	return &c
}
