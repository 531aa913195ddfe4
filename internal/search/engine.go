// Package search ranks stored ideas against a free-text query: a literal substring
// pass over the store, topped up by typo-tolerant fuzzy ranking of recent ideas.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

// Engine runs idea search.
type Engine struct {
	storage storage.Storage
	ranker  atomic.Pointer[ranking.Ranker]
	scorer  atomic.Pointer[Scorer]
	logger  *zap.Logger
	now     func() time.Time
}

// NewEngine creates a search engine. A nil config uses DefaultConfig and a nil ranker
// uses the default hot score parameters.
func NewEngine(store storage.Storage, cfg *Config, ranker *ranking.Ranker, logger *zap.Logger) *Engine {
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{storage: store, logger: logger, now: time.Now}
	e.ranker.Store(ranker)
	e.scorer.Store(NewScorer(cfg))
	return e
}

// SetConfig replaces the scoring configuration. Searches already running keep the
// configuration they started with.
func (e *Engine) SetConfig(cfg *Config) {
	e.scorer.Store(NewScorer(cfg))
}

// SetRanker replaces the ordering used for literal hits and score ties.
func (e *Engine) SetRanker(r *ranking.Ranker) {
	if r != nil {
		e.ranker.Store(r)
	}
}

// Ranker returns the ordering in effect.
func (e *Engine) Ranker() *ranking.Ranker {
	return e.ranker.Load()
}

// Config returns the configuration in effect.
func (e *Engine) Config() Config {
	return e.scorer.Load().Config()
}

// Search returns ideas matching the query. Literal matches come first; when they don't
// fill the page, the most recent ideas are fuzzy-ranked and AutoFuzzy is set.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	scorer := e.scorer.Load()
	ranker := e.ranker.Load()
	cfg := scorer.config

	if query.Limit <= 0 {
		query.Limit = cfg.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	query.Limit = min(query.Limit, cfg.MaxLimit)

	now := e.now()
	tieBreak := func(a, b *models.Idea) int {
		return ranker.Compare(query.Sort, a.RankItem(), b.RankItem(), now)
	}

	var results []Scored[*models.Idea]
	seen := make(map[string]struct{})
	if !query.Fuzzy && NormalizeSearchText(query.Query) != "" {
		stored, err := e.storage.SearchIdeas(ctx, query.Query, query.Limit)
		if err != nil {
			return nil, fmt.Errorf("literal search failed: %w", err)
		}
		// The store also matches inside the encoded tag list; keep only real hits.
		literal := stored[:0]
		for _, idea := range stored {
			if containsLiteral(idea, query.Query) {
				literal = append(literal, idea)
			}
		}
		ranking.Sort(ranker, literal, query.Sort, now, (*models.Idea).RankItem)
		for _, idea := range literal {
			results = append(results, Scored[*models.Idea]{Item: idea, Score: 1})
			seen[idea.ID] = struct{}{}
		}
	}

	autoFuzzy := false
	if len(results) < query.Limit {
		candidates, err := e.storage.ListIdeas(ctx, time.Time{}, cfg.CandidateWindow)
		if err != nil {
			return nil, fmt.Errorf("failed to load search candidates: %w", err)
		}
		unseen := candidates[:0]
		for _, idea := range candidates {
			if _, ok := seen[idea.ID]; !ok {
				unseen = append(unseen, idea)
			}
		}

		qc := NewContext(query.Query)
		fuzzyHits := Rank(scorer, qc, unseen, query.Limit-len(results), ideaFields, tieBreak)
		if len(fuzzyHits) > 0 && !query.Fuzzy {
			autoFuzzy = true
		}
		results = append(results, fuzzyHits...)
		e.logger.Debug("fuzzy ranking",
			zap.String("query", query.Query),
			zap.Int("candidates", len(unseen)),
			zap.Int("hits", len(fuzzyHits)),
		)
	}

	response := &models.SearchResponse{
		Results:   make([]*models.SearchResult, 0, len(results)),
		Total:     len(results),
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
		AutoFuzzy: autoFuzzy,
	}
	for i, r := range results {
		response.Results = append(response.Results, &models.SearchResult{
			Idea:  r.Item,
			Score: r.Score,
			Rank:  i + 1,
		})
	}
	return response, nil
}

// containsLiteral reports whether q occurs, ignoring case, in the title, problem
// statement, raw text or space-joined tags of idea.
func containsLiteral(idea *models.Idea, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, field := range []string{idea.Title, idea.ProblemStatement, idea.RawInputText, strings.Join(idea.Tags, " ")} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func ideaFields(idea *models.Idea) Fields {
	return Fields{
		Title:            idea.Title,
		ProblemStatement: idea.ProblemStatement,
		RawInputText:     idea.RawInputText,
		Tags:             idea.Tags,
	}
}
