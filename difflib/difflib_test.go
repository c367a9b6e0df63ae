package difflib_test

import (
	"testing"

	"github.com/fwojciec/harvest/difflib"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello big world", difflib.Normalize("  Hello\n\tBIG   world "))
	assert.Empty(t, difflib.Normalize(" \n "))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("identical text scores one", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.0, difflib.Similarity("The quick brown fox", "the  quick brown FOX"))
	})

	t.Run("scores matching blocks ratio", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.75, difflib.Similarity("abcd", "bcde"), 1e-9)
	})

	t.Run("empty against non-empty scores zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, difflib.Similarity("", "text"))
	})

	t.Run("is symmetric", func(t *testing.T) {
		t.Parallel()

		pairs := [][2]string{
			{"abcd", "bcde"},
			{"The mayor opened the bridge on Monday", "On Monday the mayor opened a new bridge"},
			{"aaab", "abbb"},
			{"tram line extended", "Tram line to be extended next year"},
			{"qwerty", "ytrewq"},
		}
		for _, p := range pairs {
			assert.Equal(t, difflib.Similarity(p[0], p[1]), difflib.Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
		}
	})

	t.Run("unrelated text scores low", func(t *testing.T) {
		t.Parallel()
		assert.Less(t, difflib.Similarity("Weather forecast for the weekend", "Stock markets close higher"), 0.5)
	})
}

func TestSimilarAtLeast(t *testing.T) {
	t.Parallel()

	t.Run("agrees with Similarity", func(t *testing.T) {
		t.Parallel()

		a := "City council approves new budget for parks"
		b := "City council approves new budget for the parks"
		s := difflib.Similarity(a, b)
		assert.True(t, difflib.SimilarAtLeast(a, b, s))
		assert.False(t, difflib.SimilarAtLeast(a, b, s+0.01))
	})

	t.Run("rejects by length bound", func(t *testing.T) {
		t.Parallel()
		assert.False(t, difflib.SimilarAtLeast("short", "a much much longer piece of text", 0.75))
	})

	t.Run("treats equal normalized text as similar", func(t *testing.T) {
		t.Parallel()
		assert.True(t, difflib.SimilarAtLeast("Same Text", "same   text", 0.99))
	})
}
