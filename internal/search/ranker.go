package search

import (
	"cmp"
	"slices"
)

// Scored pairs an item with its relevance.
type Scored[T any] struct {
	Item  T
	Score float64
}

// Rank scores every item, sorts by descending score with tieBreak ordering equal scores,
// and keeps the items above the primary cutoff. When none clear it, items above the
// fallback cutoff are kept instead. At most limit items are returned; the result may be
// empty. A nil tieBreak keeps input order for ties.
func Rank[T any](s *Scorer, qc *Context, items []T, limit int, fields func(T) Fields, tieBreak func(a, b T) int) []Scored[T] {
	scored := make([]Scored[T], 0, len(items))
	for _, item := range items {
		scored = append(scored, Scored[T]{Item: item, Score: s.Score(qc, fields(item))})
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if tieBreak != nil {
			return tieBreak(a.Item, b.Item)
		}
		return 0
	})

	survivors := aboveCutoff(scored, s.cutoff(qc))
	if len(survivors) == 0 {
		survivors = aboveCutoff(scored, s.config.FallbackMinScore)
	}
	if limit > 0 && len(survivors) > limit {
		survivors = survivors[:limit]
	}
	return survivors
}

// aboveCutoff returns the prefix of the descending-sorted slice scoring at least cutoff.
func aboveCutoff[T any](sorted []Scored[T], cutoff float64) []Scored[T] {
	n := 0
	for n < len(sorted) && sorted[n].Score >= cutoff {
		n++
	}
	return sorted[:n]
}
