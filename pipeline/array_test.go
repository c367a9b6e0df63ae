package pipeline_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(body string) *harvest.RawDocument {
	html := "<!DOCTYPE html><html><head><title>Test Page</title></head><body>" + body + "</body></html>"
	return &harvest.RawDocument{URL: "https://site.example/news", HTML: html, StatusCode: 200}
}

func listItems(class string, texts ...string) string {
	var b strings.Builder
	for _, text := range texts {
		fmt.Fprintf(&b, `<div class="%s"><p>%s</p></div>`, class, text)
	}
	return b.String()
}

var headlines = []string{
	"Council approves new park budget",
	"Library extends weekend opening hours",
	"Bus routes change from next Monday",
	"Museum opens dinosaur exhibition hall",
	"Storm warning issued for the coast",
}

func TestArrayPipeline_Process(t *testing.T) {
	t.Parallel()

	t.Run("keeps first of similar items and re-indexes", func(t *testing.T) {
		t.Parallel()

		doc := page(listItems("news-item",
			"Council approves the new park budget for 2025 after long debate",
			"Library extends weekend opening hours for students",
			"Council approves the new park budget for 2025 after a long debate",
		))
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{
			Selectors: []harvest.SelectorSpec{{Name: "news", Selector: ".news-item"}},
		}, 5)

		out, err := p.Process(doc)

		require.NoError(t, err)
		arrays := out.Metadata["arrays"].([]*harvest.ExtractedArray)
		require.Len(t, arrays, 1)
		items := arrays[0].Items
		require.Len(t, items, 2)
		assert.Equal(t, 0, items[0].Index)
		assert.Equal(t, "Council approves the new park budget for 2025 after long debate", items[0].MainContent)
		assert.Equal(t, 1, items[1].Index)
		assert.Equal(t, "Library extends weekend opening hours for students", items[1].MainContent)
		assert.True(t, arrays[0].DeduplicationApplied)
		assert.Equal(t, 1, out.Metadata["duplicates_removed"])
		assert.Equal(t, "Test Page", out.Title)
	})

	t.Run("summary lists counts without content", func(t *testing.T) {
		t.Parallel()

		doc := page(listItems("news-item", headlines...))
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{
			Selectors: []harvest.SelectorSpec{
				{Name: "news", Selector: ".news-item"},
				{Name: "events", Selector: ".event"},
			},
			Format: harvest.FormatSummary,
		}, 5)

		out, err := p.Process(doc)

		require.NoError(t, err)
		lines := strings.Split(out.Content, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "news: 5 items found with selector '.news-item'", lines[0])
		assert.Equal(t, "events: 0 items found with selector '.event'", lines[1])
		for _, h := range headlines {
			assert.NotContains(t, out.Content, h)
		}
		assert.Equal(t, []string{"news"}, out.Metadata["successful_selectors"])
		assert.Equal(t, 5, out.Metadata["total_items_extracted"])
	})

	t.Run("preserves source order among survivors", func(t *testing.T) {
		t.Parallel()

		texts := []string{
			headlines[3], headlines[0], headlines[3], headlines[4],
			headlines[1], headlines[0], headlines[2],
		}
		doc := page(listItems("row", texts...))
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{
			Selectors: []harvest.SelectorSpec{{Name: "rows", Selector: ".row"}},
			Format:    harvest.FormatFlat,
		}, 5)

		out, err := p.Process(doc)

		require.NoError(t, err)
		want := []string{headlines[3], headlines[0], headlines[4], headlines[1], headlines[2]}
		assert.Equal(t, strings.Join(want, "\n\n"), out.Content)
	})

	t.Run("isolates a failing selector", func(t *testing.T) {
		t.Parallel()

		doc := page(listItems("news-item", headlines[:2]...))
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{
			Selectors: []harvest.SelectorSpec{
				{Name: "broken", Selector: "div["},
				{Name: "news", Selector: ".news-item"},
			},
		}, 5)

		out, err := p.Process(doc)

		require.NoError(t, err)
		require.Len(t, out.SelectorErrors, 1)
		assert.Equal(t, harvest.ESELECTOR, harvest.ErrorCode(out.SelectorErrors[0]))
		assert.Contains(t, out.Content, "=== NEWS (2 items) ===")
		arrays := out.Metadata["arrays"].([]*harvest.ExtractedArray)
		assert.True(t, arrays[0].Failed())
	})

	t.Run("rejects invalid requests before extraction", func(t *testing.T) {
		t.Parallel()

		specs := make([]harvest.SelectorSpec, 4)
		for i := range specs {
			specs[i] = harvest.SelectorSpec{Name: fmt.Sprintf("s%d", i), Selector: "div"}
		}
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{Selectors: specs}, 3)

		out, err := p.Process(page(""))

		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("records request metadata", func(t *testing.T) {
		t.Parallel()

		doc := page(listItems("news-item", headlines[0]))
		p := pipeline.NewArrayPipeline(harvest.ArrayRequest{
			Selectors:        []harvest.SelectorSpec{{Name: "news", Selector: ".news-item"}},
			ExcludeSelectors: []string{".ad"},
		}, 5)

		out, err := p.Process(doc)

		require.NoError(t, err)
		assert.Equal(t, "array", p.Name())
		assert.Equal(t, "array_based", out.Metadata["extraction_mode"])
		assert.Equal(t, "structured", out.Metadata["format_output"])
		assert.Equal(t, []string{"news"}, out.Metadata["array_selectors_used"])
		assert.Equal(t, []string{".ad"}, out.Metadata["exclude_selectors_used"])
		assert.Equal(t, len(doc.HTML), out.Metadata["original_html_length"])
		assert.Equal(t, 5, out.WordCount)
	})
}
