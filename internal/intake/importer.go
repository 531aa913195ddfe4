package intake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/dedup"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/moderation"
	"github.com/DolphinWorld/demandsolution-codex/internal/title"
)

// Record is one idea to bulk-load, typically a spreadsheet row. Title, problem
// statement and tags are optional and filled from the fallback spec when empty.
type Record struct {
	Input            models.IdeaInput
	Title            string
	ProblemStatement string
	Tags             []string
	Upvotes          int
}

// SkippedRecord is a record that was not imported.
type SkippedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk load.
type ImportResult struct {
	Created []*models.Idea        `json:"created"`
	Merged  []*models.MergeRecord `json:"merged"`
	Skipped []SkippedRecord       `json:"skipped"`
}

// Import stores records as ideas, merging ones that duplicate an existing idea or an
// earlier record of the same batch. Invalid and blocked records are skipped. Imports are
// not rate limited.
func (s *Service) Import(ctx context.Context, records []Record, anonID string) (*ImportResult, error) {
	classifier := s.classifier.Load()
	candidates, err := s.candidates(ctx, classifier.Config().CandidateWindow)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Created: []*models.Idea{},
		Merged:  []*models.MergeRecord{},
		Skipped: []SkippedRecord{},
	}
	for i := range records {
		rec := &records[i]
		if err := rec.Input.Validate(); err != nil {
			result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Reason: err.Error()})
			continue
		}
		if res := moderation.Check(rec.Input.RawInputText, rec.Input.TargetUsers, rec.Input.Constraints); res.Blocked {
			blocked := &BlockedError{Labels: res.Labels}
			result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Reason: blocked.Error()})
			continue
		}

		if decision := classifier.Detect(rec.Input.RawInputText, candidates); decision != nil {
			result.Merged = append(result.Merged, &models.MergeRecord{
				ID:              s.newID(),
				TargetIdeaID:    decision.TargetIdeaID,
				SourceText:      rec.Input.RawInputText,
				Reason:          decision.Reason.String(),
				SimilarityScore: decision.SimilarityScore,
				AnonID:          anonID,
			})
			continue
		}

		idea := s.recordIdea(rec)
		idea.CreatedByAnonID = anonID
		result.Created = append(result.Created, idea)
		// Newest first, like the stored window.
		candidates = append([]dedup.Candidate{{ID: idea.ID, Text: idea.DedupText()}}, candidates...)
	}

	if len(result.Created) > 0 {
		if err := s.storage.BatchCreateIdeas(ctx, result.Created); err != nil {
			return nil, fmt.Errorf("failed to store imported ideas: %w", err)
		}
	}
	for _, m := range result.Merged {
		if err := s.storage.CreateMerge(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to record merge into %s: %w", m.TargetIdeaID, err)
		}
	}

	s.logger.Info("import finished",
		zap.Int("created", len(result.Created)),
		zap.Int("merged", len(result.Merged)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *Service) recordIdea(rec *Record) *models.Idea {
	fallback := FallbackSpec(&rec.Input)
	problem := rec.ProblemStatement
	if problem == "" {
		problem = fallback.ProblemStatement
	}
	tags := rec.Tags
	if len(tags) == 0 {
		tags = fallback.Tags
	}
	candidateTitle := rec.Title
	if candidateTitle == "" {
		candidateTitle = fallback.Title
	}

	return &models.Idea{
		ID:               s.newID(),
		RawInputText:     rec.Input.RawInputText,
		TargetUsers:      rec.Input.TargetUsers,
		Platform:         rec.Input.Platform,
		Constraints:      rec.Input.Constraints,
		Title:            title.BuildMeaningfulTitle(rec.Input.RawInputText, candidateTitle),
		ProblemStatement: problem,
		Tags:             tags,
		Features:         fallback.Features,
		OpenQuestions:    fallback.OpenQuestions,
		UpvotesCount:     max(rec.Upvotes, 0),
	}
}
