// Package ranking orders ideas for listings and breaks ties between equally relevant
// search hits.
package ranking

import (
	"fmt"
	"strings"
	"time"
)

// SortOrder selects how ideas are ordered.
type SortOrder string

const (
	// SortHot orders by upvotes decayed with age.
	SortHot SortOrder = "hot"
	// SortNew orders by creation time, newest first.
	SortNew SortOrder = "new"
)

// String returns the query-string form of the order.
func (o SortOrder) String() string {
	return string(o)
}

// ParseSortOrder parses "hot" or "new". An empty string is SortHot.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortHot:
		return SortHot, nil
	case SortNew:
		return SortNew, nil
	default:
		return "", fmt.Errorf("unknown sort order: %q", s)
	}
}

// Item is the part of an idea that ranking looks at.
type Item struct {
	Upvotes   int
	CreatedAt time.Time
}
