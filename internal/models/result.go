package models

import "github.com/DolphinWorld/demandsolution-codex/internal/dedup"

// SearchResult represents a single search hit.
type SearchResult struct {
	Idea  *Idea   `json:"idea"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	// AutoFuzzy indicates that fuzzy ranking was used because the literal search
	// did not fill the page.
	AutoFuzzy bool `json:"auto_fuzzy,omitempty"`
}

// ListResponse is one page of ideas.
type ListResponse struct {
	Items      []*Idea `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// SubmitResponse is the outcome of a submission: either a new idea or a merge.
type SubmitResponse struct {
	Merged bool         `json:"merged"`
	Merge  *MergeRecord `json:"merge,omitempty"`
	Idea   *Idea        `json:"idea"`
}

// DedupCheckResponse is the dry-run result of merge detection.
type DedupCheckResponse struct {
	Decision    *dedup.MergeDecision `json:"decision"`
	InputTokens []string             `json:"input_tokens"`
	Evaluations []dedup.Evaluation   `json:"evaluations,omitempty"`
}
