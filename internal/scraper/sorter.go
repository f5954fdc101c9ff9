package scraper

import (
	"sort"
	"time"
)

// SortArticles orders articles by publication date when byDate is set,
// otherwise returns the input untouched. Records without a parseable date
// sort with the minimum date, so they land at the oldest end in either
// direction. The sort is stable: equal-key records keep their discovery
// order.
func SortArticles(articles []Article, byDate, ascending bool) []Article {
	if !byDate {
		return articles
	}

	sorted := make([]Article, len(articles))
	copy(sorted, articles)

	keys := make([]time.Time, len(sorted))
	for i, a := range sorted {
		if t, ok := a.ParsedDate(); ok {
			keys[i] = t
		}
	}

	sort.Stable(&byDateSorter{articles: sorted, keys: keys, ascending: ascending})
	return sorted
}

type byDateSorter struct {
	articles  []Article
	keys      []time.Time
	ascending bool
}

func (s *byDateSorter) Len() int { return len(s.articles) }

func (s *byDateSorter) Swap(i, j int) {
	s.articles[i], s.articles[j] = s.articles[j], s.articles[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

func (s *byDateSorter) Less(i, j int) bool {
	if s.ascending {
		return s.keys[i].Before(s.keys[j])
	}
	return s.keys[i].After(s.keys[j])
}
