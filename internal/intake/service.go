// Package intake accepts idea submissions: it rate limits and screens them, folds
// redundant ones into existing ideas, and stores the rest with a generated spec.
package intake

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/dedup"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/moderation"
	"github.com/DolphinWorld/demandsolution-codex/internal/ratelimit"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
	"github.com/DolphinWorld/demandsolution-codex/internal/title"
)

// Caller identifies who is submitting.
type Caller struct {
	AnonID string
	IP     string
}

// Service handles idea submissions.
type Service struct {
	config     *Config
	storage    storage.Storage
	generator  SpecGenerator
	limiter    *ratelimit.Limiter
	classifier atomic.Pointer[dedup.Classifier]
	logger     *zap.Logger
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator sets the spec generator. The default is FallbackGenerator.
func WithGenerator(g SpecGenerator) Option {
	return func(s *Service) { s.generator = g }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a submission service. Nil configs use their defaults.
func NewService(store storage.Storage, cfg *Config, dedupCfg *dedup.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.ApplyDefaults()

	s := &Service{
		config:    &c,
		storage:   store,
		generator: FallbackGenerator{},
		limiter:   ratelimit.New(c.RateLimitPerHour, c.RateLimitWindow),
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
	}
	s.classifier.Store(dedup.NewClassifier(dedupCfg))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDedupConfig replaces the merge thresholds. Submissions in flight keep the old ones.
func (s *Service) SetDedupConfig(cfg *dedup.Config) {
	s.classifier.Store(dedup.NewClassifier(cfg))
}

// DedupConfig returns the merge thresholds in effect.
func (s *Service) DedupConfig() dedup.Config {
	return s.classifier.Load().Config()
}

// Submit rate limits, validates and screens the submission, then either merges it into
// the best matching recent idea or stores it as a new idea.
func (s *Service) Submit(ctx context.Context, input *models.IdeaInput, caller Caller) (*models.SubmitResponse, error) {
	if caller.AnonID == "" {
		return nil, fmt.Errorf("%w: missing anonymous identity", models.ErrInvalidInput)
	}
	if !s.limiter.Allow(ratelimit.Key(caller.AnonID, caller.IP)) {
		s.logger.Info("submission rate limited", zap.String("anon_id", caller.AnonID), zap.String("ip", caller.IP))
		return nil, ErrRateLimited
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if res := moderation.Check(input.RawInputText, input.TargetUsers, input.Constraints); res.Blocked {
		s.logger.Info("submission blocked", zap.Strings("labels", res.Labels))
		return nil, &BlockedError{Labels: res.Labels}
	}

	classifier := s.classifier.Load()
	candidates, err := s.candidates(ctx, classifier.Config().CandidateWindow)
	if err != nil {
		return nil, err
	}
	if decision := classifier.Detect(input.RawInputText, candidates); decision != nil {
		return s.merge(ctx, input, caller, decision)
	}

	idea, err := s.buildIdea(ctx, input)
	if err != nil {
		return nil, err
	}
	idea.CreatedByAnonID = caller.AnonID
	if err := s.storage.CreateIdea(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to store idea: %w", err)
	}
	s.logger.Info("idea created", zap.String("id", idea.ID), zap.String("title", idea.Title))
	return &models.SubmitResponse{Idea: idea}, nil
}

// Check runs merge detection for text against recent ideas without storing anything.
func (s *Service) Check(ctx context.Context, text string) (*models.DedupCheckResponse, error) {
	classifier := s.classifier.Load()
	candidates, err := s.candidates(ctx, classifier.Config().CandidateWindow)
	if err != nil {
		return nil, err
	}
	exp := classifier.Explain(text, candidates)
	return &models.DedupCheckResponse{
		Decision:    exp.Decision,
		InputTokens: exp.InputTokens,
		Evaluations: exp.Evaluations,
	}, nil
}

func (s *Service) candidates(ctx context.Context, window int) ([]dedup.Candidate, error) {
	recent, err := s.storage.ListIdeas(ctx, time.Time{}, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load merge candidates: %w", err)
	}
	return toCandidates(recent), nil
}

func toCandidates(ideas []*models.Idea) []dedup.Candidate {
	out := make([]dedup.Candidate, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, dedup.Candidate{ID: idea.ID, Text: idea.DedupText()})
	}
	return out
}

func (s *Service) merge(ctx context.Context, input *models.IdeaInput, caller Caller, decision *dedup.MergeDecision) (*models.SubmitResponse, error) {
	record := &models.MergeRecord{
		ID:              s.newID(),
		TargetIdeaID:    decision.TargetIdeaID,
		SourceText:      input.RawInputText,
		Reason:          decision.Reason.String(),
		SimilarityScore: decision.SimilarityScore,
		AnonID:          caller.AnonID,
	}
	if err := s.storage.CreateMerge(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record merge: %w", err)
	}
	target, err := s.storage.GetIdea(ctx, decision.TargetIdeaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load merge target: %w", err)
	}
	s.logger.Info("submission merged",
		zap.String("target_id", target.ID),
		zap.String("reason", record.Reason),
		zap.Float64("similarity", record.SimilarityScore),
	)
	return &models.SubmitResponse{Merged: true, Merge: record, Idea: target}, nil
}

// buildIdea generates the spec for a new idea. A failing generator falls back to the
// static spec rather than rejecting the submission.
func (s *Service) buildIdea(ctx context.Context, input *models.IdeaInput) (*models.Idea, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerateTimeout)
	defer cancel()

	spec, err := s.generator.Generate(genCtx, input)
	if err != nil || spec == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("spec generation failed, using fallback", zap.Error(err))
		spec = FallbackSpec(input)
	}

	return &models.Idea{
		ID:               s.newID(),
		RawInputText:     input.RawInputText,
		TargetUsers:      input.TargetUsers,
		Platform:         input.Platform,
		Constraints:      input.Constraints,
		Title:            title.BuildMeaningfulTitle(input.RawInputText, spec.Title),
		ProblemStatement: spec.ProblemStatement,
		Tags:             spec.Tags,
		Features:         spec.Features,
		OpenQuestions:    spec.OpenQuestions,
	}, nil
}
