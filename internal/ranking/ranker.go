package ranking

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Ranker computes hot scores and orders items.
type Ranker struct {
	config *Config
}

// NewRanker creates a Ranker. A nil config uses DefaultConfig.
func NewRanker(config *Config) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	c.ApplyDefaults()
	return &Ranker{config: &c}
}

var defaultRanker = NewRanker(nil)

// HotScore is upvotes / (max(1, ageHours) + 2)^0.8 with the default parameters.
func HotScore(upvotes int, createdAt, now time.Time) float64 {
	return defaultRanker.HotScore(upvotes, createdAt, now)
}

// HotScore scores an idea by upvotes decayed with age.
func (r *Ranker) HotScore(upvotes int, createdAt, now time.Time) float64 {
	ageHours := max(r.config.MinAgeHours, now.Sub(createdAt).Hours())
	return float64(upvotes) / math.Pow(ageHours+r.config.AgeOffsetHours, r.config.Gravity)
}

// Compare orders a before b (negative) when a ranks higher under order.
// Items that tie on the primary key fall back to newest first.
func (r *Ranker) Compare(order SortOrder, a, b Item, now time.Time) int {
	if order == SortHot {
		if c := cmp.Compare(r.HotScore(b.Upvotes, b.CreatedAt, now), r.HotScore(a.Upvotes, a.CreatedAt, now)); c != 0 {
			return c
		}
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// Sort orders items in place. The sort is stable so equal items keep their input order.
func Sort[T any](r *Ranker, items []T, order SortOrder, now time.Time, item func(T) Item) {
	slices.SortStableFunc(items, func(a, b T) int {
		return r.Compare(order, item(a), item(b), now)
	})
}
