// Package models defines core data structures for ideas, merges, queries, and search results.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Submission length bounds, in characters.
const (
	MinRawInputLength    = 20
	MaxRawInputLength    = 3000
	MaxTargetUsersLength = 300
	MaxConstraintsLength = 500
)

// Platforms accepted on submission.
var Platforms = []string{"Web", "Mobile", "Desktop", "Any"}

// Idea is a stored product idea with its generated spec.
type Idea struct {
	ID               string    `json:"id" db:"id"`
	RawInputText     string    `json:"raw_input_text" db:"raw_input_text"`
	TargetUsers      string    `json:"target_users,omitempty" db:"target_users"`
	Platform         string    `json:"platform,omitempty" db:"platform"`
	Constraints      string    `json:"constraints,omitempty" db:"constraints"`
	Title            string    `json:"title" db:"title"`
	ProblemStatement string    `json:"problem_statement" db:"problem_statement"`
	Tags             []string  `json:"tags" db:"tags"`
	Features         []string  `json:"features" db:"features"`
	OpenQuestions    []string  `json:"open_questions" db:"open_questions"`
	UpvotesCount     int       `json:"upvotes_count" db:"upvotes_count"`
	CreatedByAnonID  string    `json:"-" db:"created_by_anon_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// DedupText is the text a new submission is compared against: raw input, title and
// problem statement.
func (i *Idea) DedupText() string {
	return strings.Join([]string{i.RawInputText, i.Title, i.ProblemStatement}, " ")
}

// RankItem returns the fields ranking orders by.
func (i *Idea) RankItem() ranking.Item {
	return ranking.Item{Upvotes: i.UpvotesCount, CreatedAt: i.CreatedAt}
}

// IdeaInput is a submission of a new idea.
type IdeaInput struct {
	RawInputText string `json:"raw_input_text"`
	TargetUsers  string `json:"target_users,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Constraints  string `json:"constraints,omitempty"`
}

// Validate checks field lengths and the platform. It trims surrounding whitespace first.
func (in *IdeaInput) Validate() error {
	in.RawInputText = strings.TrimSpace(in.RawInputText)
	in.TargetUsers = strings.TrimSpace(in.TargetUsers)
	in.Platform = strings.TrimSpace(in.Platform)
	in.Constraints = strings.TrimSpace(in.Constraints)

	n := utf8.RuneCountInString(in.RawInputText)
	if n < MinRawInputLength {
		return fmt.Errorf("%w: raw_input_text must be at least %d characters", ErrInvalidInput, MinRawInputLength)
	}
	if n > MaxRawInputLength {
		return fmt.Errorf("%w: raw_input_text must be at most %d characters", ErrInvalidInput, MaxRawInputLength)
	}
	if utf8.RuneCountInString(in.TargetUsers) > MaxTargetUsersLength {
		return fmt.Errorf("%w: target_users must be at most %d characters", ErrInvalidInput, MaxTargetUsersLength)
	}
	if utf8.RuneCountInString(in.Constraints) > MaxConstraintsLength {
		return fmt.Errorf("%w: constraints must be at most %d characters", ErrInvalidInput, MaxConstraintsLength)
	}
	if in.Platform != "" && !validPlatform(in.Platform) {
		return fmt.Errorf("%w: platform must be one of %s", ErrInvalidInput, strings.Join(Platforms, ", "))
	}
	return nil
}

func validPlatform(p string) bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

// MergeRecord records a submission that was folded into an existing idea.
type MergeRecord struct {
	ID              string    `json:"id" db:"id"`
	TargetIdeaID    string    `json:"target_idea_id" db:"target_idea_id"`
	SourceText      string    `json:"source_text" db:"source_text"`
	Reason          string    `json:"reason" db:"reason"`
	SimilarityScore float64   `json:"similarity_score" db:"similarity_score"`
	AnonID          string    `json:"-" db:"anon_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
