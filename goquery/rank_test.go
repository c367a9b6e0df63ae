package goquery_test

import (
	"testing"

	"github.com/fwojciec/harvest/goquery"
	"github.com/stretchr/testify/assert"
)

func TestSelectorRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		selector string
		want     int
	}{
		{"#main", goquery.RankID},
		{"#story p", goquery.RankID},
		{"div.foo#bar", goquery.RankID},
		{"article, #content", goquery.RankID},
		{".content", goquery.RankClass},
		{".article p", goquery.RankClass},
		{`[role="main"]`, goquery.RankClass},
		{"li:first-child", goquery.RankClass},
		{"article", goquery.RankElement},
		{"main article p", goquery.RankElement},
		{"div[", goquery.RankClass},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.SelectorRank(tt.selector))
		})
	}
}
