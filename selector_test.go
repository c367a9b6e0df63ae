package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
)

func TestSelectorSpec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec harvest.SelectorSpec
		ok   bool
	}{
		{"valid", harvest.SelectorSpec{Name: "news", Selector: ".news-item", Limit: 3}, true},
		{"missing name", harvest.SelectorSpec{Selector: ".news-item"}, false},
		{"blank selector", harvest.SelectorSpec{Name: "news", Selector: "  "}, false},
		{"negative limit", harvest.SelectorSpec{Name: "news", Selector: "li", Limit: -1}, false},
		{"empty sub-selector", harvest.SelectorSpec{Name: "news", Selector: "li", SubSelectors: map[string]string{"title": ""}}, false},
		{"empty exclude", harvest.SelectorSpec{Name: "news", Selector: "li", ExcludeSelectors: []string{""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.spec.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
		})
	}
}

func TestFieldKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, harvest.FieldImage, harvest.FieldKindOf("Image"))
	assert.Equal(t, harvest.FieldImage, harvest.FieldKindOf("photo"))
	assert.Equal(t, harvest.FieldLink, harvest.FieldKindOf("URL"))
	assert.Equal(t, harvest.FieldLink, harvest.FieldKindOf("href"))
	assert.Equal(t, harvest.FieldText, harvest.FieldKindOf("title"))
	assert.Equal(t, harvest.FieldText, harvest.FieldKindOf("image_caption"))
}
