package goquery_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Bridge reopens</title></head>
<body>
<nav>Home | News | Sport</nav>
<main>
	<div class="article">
		<h2>Harbour bridge reopens</h2>
		<p>The harbour bridge reopened on Monday after two years of repairs.</p>
	</div>
	<div class="related">Related: ferry timetable changes this summer</div>
</main>
<footer>Copyright City News</footer>
</body>
</html>`

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("returns one section per selector in selector order", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, articlePage)

		sections, errs := goquery.ExtractSections(doc, []string{".related", ".article", ".missing"}, nil)

		require.Empty(t, errs)
		require.Len(t, sections, 2)
		assert.Equal(t, "selector_1", sections[0].SelectorName)
		assert.Equal(t, ".related", sections[0].SelectorUsed)
		assert.Equal(t, "Related: ferry timetable changes this summer", sections[0].Content)
		assert.Equal(t, "selector_2", sections[1].SelectorName)
		assert.Equal(t, "Harbour bridge reopens\nThe harbour bridge reopened on Monday after two years of repairs.", sections[1].Content)
		assert.Equal(t, 1, sections[1].ElementCount)
		assert.Equal(t, harvest.WordCount(sections[1].Content), sections[1].WordCount)
	})

	t.Run("merges nested matches of one selector", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<body><div class="content"><p>Outer text before.</p><div class="content"><p>Inner text only.</p></div></div></body>`)

		sections, _ := goquery.ExtractSections(doc, []string{".content"}, nil)

		require.Len(t, sections, 1)
		assert.Equal(t, "Outer text before.\nInner text only.", sections[0].Content)
		assert.Equal(t, 2, sections[0].ElementCount)
	})

	t.Run("removes page chrome and excludes", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, articlePage)

		sections, _ := goquery.ExtractSections(doc, []string{"body"}, []string{".related"})

		require.Len(t, sections, 1)
		assert.NotContains(t, sections[0].Content, "Home | News")
		assert.NotContains(t, sections[0].Content, "Copyright")
		assert.NotContains(t, sections[0].Content, "ferry")
		assert.Contains(t, sections[0].Content, "harbour bridge reopened")
		assert.Equal(t, 1, doc.Find("nav").Length())
	})

	t.Run("falls back to default content selectors", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, articlePage)

		sections, errs := goquery.ExtractSections(doc, nil, nil)

		require.Empty(t, errs)
		require.Len(t, sections, 1)
		assert.Equal(t, goquery.DefaultSectionName, sections[0].SelectorName)
		assert.Equal(t, "main", sections[0].SelectorUsed)
		assert.Contains(t, sections[0].Content, "ferry timetable")
	})

	t.Run("falls back when requested selectors match nothing", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, articlePage)

		sections, _ := goquery.ExtractSections(doc, []string{".missing"}, nil)

		require.Len(t, sections, 1)
		assert.Equal(t, goquery.FallbackSectionName, sections[0].SelectorName)
		assert.Equal(t, "main", sections[0].SelectorUsed)
	})

	t.Run("falls back to body without content containers", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<body><div>Plain page text without containers</div></body>`)

		sections, _ := goquery.ExtractSections(doc, nil, nil)

		require.Len(t, sections, 1)
		assert.Equal(t, "body", sections[0].SelectorUsed)
		assert.Equal(t, "Plain page text without containers", sections[0].Content)
	})

	t.Run("skips invalid selectors", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, articlePage)

		sections, errs := goquery.ExtractSections(doc, []string{"div[", ".article"}, nil)

		require.Len(t, errs, 1)
		assert.Equal(t, harvest.ESELECTOR, harvest.ErrorCode(errs[0]))
		require.Len(t, sections, 1)
		assert.Equal(t, "selector_2", sections[0].SelectorName)
	})
}
