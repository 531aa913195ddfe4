package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
)

// Search and listing limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
	DefaultListLimit   = 20
	MaxListLimit       = 50
)

// SearchQuery represents a search request over ideas.
type SearchQuery struct {
	Query string            `json:"query"`
	Limit int               `json:"limit,omitempty"`
	Sort  ranking.SortOrder `json:"sort,omitempty"` // tie-break among equally relevant hits
	// Fuzzy skips the literal pass and ranks candidates directly.
	Fuzzy bool `json:"fuzzy,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
func (q *SearchQuery) Validate() error {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidInput)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	sort, err := ranking.ParseSortOrder(string(q.Sort))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	q.Sort = sort
	return nil
}

// ListQuery is a page request over all ideas, newest first by creation time.
type ListQuery struct {
	Sort  ranking.SortOrder `json:"sort,omitempty"`
	Limit int               `json:"limit,omitempty"`
	// Cursor is the created_at of the last idea of the previous page; zero starts at the top.
	Cursor time.Time `json:"cursor,omitempty"`
}

// Validate clamps the limit into [1, 50] and defaults the sort to hot.
func (q *ListQuery) Validate() error {
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
	q.Limit = min(max(q.Limit, 1), MaxListLimit)
	sort, err := ranking.ParseSortOrder(string(q.Sort))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	q.Sort = sort
	return nil
}

// ParseCursor parses an RFC 3339 cursor. Empty or malformed cursors start at the top.
func ParseCursor(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
