package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Harbour bridge reopens</h1><p>Traffic resumed on Monday.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "# Harbour bridge reopens\n\nTraffic resumed on Monday.", md)
	})

	t.Run("keeps absolute links", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>See the <a href="https://city.example/map">route map</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[route map](https://city.example/map)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>Walnut desk</li><li>Linen lamp</li></ul><ol><li>Order</li><li>Pay</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- Walnut desk")
		assert.Contains(t, md, "- Linen lamp")
		assert.Contains(t, md, "1. Order")
		assert.Contains(t, md, "2. Pay")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Item</th><th>Price</th></tr></thead>
<tbody><tr><td>Desk</td><td>$120</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Item")
		assert.Contains(t, md, "$120")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts emphasis and code", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><strong>Closed</strong> for <em>maintenance</em>, run <code>make</code>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Closed**")
		assert.Contains(t, md, "*maintenance*")
		assert.Contains(t, md, "`make`")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  \n ")

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}
