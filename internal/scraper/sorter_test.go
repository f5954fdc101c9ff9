package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortArticlesDisabledKeepsOrder(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/b", Date: "01.01.2020"},
		{URL: "https://e.com/p/a", Date: "01.01.2024"},
	}

	got := SortArticles(articles, false, false)

	assert.Equal(t, articles, got)
}

func TestSortArticlesDescendingDefault(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/old", Date: "01.01.2020"},
		{URL: "https://e.com/p/new", Date: "15.06.2024"},
		{URL: "https://e.com/p/mid", Date: "10.03.2022"},
	}

	got := SortArticles(articles, true, false)

	require.Len(t, got, 3)
	assert.Equal(t, "https://e.com/p/new", got[0].URL)
	assert.Equal(t, "https://e.com/p/mid", got[1].URL)
	assert.Equal(t, "https://e.com/p/old", got[2].URL)
}

func TestSortArticlesAscending(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/new", Date: "15.06.2024"},
		{URL: "https://e.com/p/old", Date: "01.01.2020"},
	}

	got := SortArticles(articles, true, true)

	assert.Equal(t, "https://e.com/p/old", got[0].URL)
	assert.Equal(t, "https://e.com/p/new", got[1].URL)
}

func TestSortArticlesStableWithinEqualDates(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/first", Date: "05.05.2023"},
		{URL: "https://e.com/p/second", Date: "05.05.2023"},
		{URL: "https://e.com/p/third", Date: "05.05.2023"},
	}

	desc := SortArticles(articles, true, false)
	asc := SortArticles(articles, true, true)

	// Ties keep discovery order in both directions
	for i, a := range articles {
		assert.Equal(t, a.URL, desc[i].URL)
		assert.Equal(t, a.URL, asc[i].URL)
	}
}

func TestSortArticlesUnknownDatesSortOldest(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/unknown", Date: UnknownDate},
		{URL: "https://e.com/p/dated", Date: "01.01.2021"},
		{URL: "https://e.com/p/raw", Date: "some raw text"},
	}

	desc := SortArticles(articles, true, false)
	assert.Equal(t, "https://e.com/p/dated", desc[0].URL)
	assert.Equal(t, "https://e.com/p/unknown", desc[1].URL)
	assert.Equal(t, "https://e.com/p/raw", desc[2].URL)

	asc := SortArticles(articles, true, true)
	assert.Equal(t, "https://e.com/p/unknown", asc[0].URL)
	assert.Equal(t, "https://e.com/p/raw", asc[1].URL)
	assert.Equal(t, "https://e.com/p/dated", asc[2].URL)
}

func TestSortArticlesDoesNotMutateInput(t *testing.T) {
	articles := []Article{
		{URL: "https://e.com/p/old", Date: "01.01.2020"},
		{URL: "https://e.com/p/new", Date: "15.06.2024"},
	}

	_ = SortArticles(articles, true, false)

	assert.Equal(t, "https://e.com/p/old", articles[0].URL)
}

func TestParsedDate(t *testing.T) {
	_, ok := Article{Date: UnknownDate}.ParsedDate()
	assert.False(t, ok)

	_, ok = Article{}.ParsedDate()
	assert.False(t, ok)

	_, ok = Article{Date: "not a date"}.ParsedDate()
	assert.False(t, ok)

	d, ok := Article{Date: "25.12.2023"}.ParsedDate()
	require.True(t, ok)
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, 25, d.Day())
}
