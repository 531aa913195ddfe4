package search

import (
	"strings"

	"github.com/DolphinWorld/demandsolution-codex/internal/fuzzy"
	"github.com/DolphinWorld/demandsolution-codex/internal/textnorm"
)

// Fields are the searchable parts of an idea.
type Fields struct {
	Title            string
	ProblemStatement string
	RawInputText     string
	Tags             []string
}

// Scorer computes fuzzy relevance with a fixed configuration. It is safe for concurrent use.
type Scorer struct {
	config *Config
}

// NewScorer creates a Scorer. A nil config uses DefaultConfig.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	c.ApplyDefaults()
	return &Scorer{config: &c}
}

// Config returns a copy of the scorer configuration.
func (s *Scorer) Config() Config {
	return *s.config
}

var defaultScorer = NewScorer(nil)

// FuzzyTextScore scores one field against the query with the default weights.
func FuzzyTextScore(qc *Context, field string) float64 {
	return defaultScorer.FieldScore(qc, field)
}

// ComputeIdeaSearchScore scores an idea against the query with the default weights.
func ComputeIdeaSearchScore(qc *Context, idea Fields) float64 {
	return defaultScorer.Score(qc, idea)
}

// FieldScore returns 1 when the normalized field contains the normalized query, and
// otherwise blends the average best token similarity with trigram overlap. An empty
// query or field scores 0.
func (s *Scorer) FieldScore(qc *Context, field string) float64 {
	normalized := textnorm.Normalize(field)
	if normalized == "" || qc.NormalizedQuery == "" {
		return 0
	}
	if strings.Contains(normalized, qc.NormalizedQuery) {
		return 1
	}

	tokenScore := 0.0
	candidateTokens := strings.Split(normalized, " ")
	if len(qc.Tokens) > 0 {
		total := 0.0
		for _, token := range qc.Tokens {
			total += bestTokenSimilarity(token, candidateTokens)
		}
		tokenScore = total / float64(len(qc.Tokens))
	}

	trigramScore := fuzzy.JaccardSimilarity(qc.Trigrams, fuzzy.CreateTrigrams(normalized))
	return s.config.TokenWeight*tokenScore + s.config.TrigramWeight*trigramScore
}

func bestTokenSimilarity(token string, candidates []string) float64 {
	best := 0.0
	for _, c := range candidates {
		if sim := fuzzy.TokenSimilarity(token, c); sim > best {
			best = sim
			if best >= 1 {
				break
			}
		}
	}
	return best
}

// Score blends the four field scores. A strong title match is never diluted below its
// own title score.
func (s *Scorer) Score(qc *Context, idea Fields) float64 {
	title := s.FieldScore(qc, idea.Title)
	problem := s.FieldScore(qc, idea.ProblemStatement)
	raw := s.FieldScore(qc, idea.RawInputText)
	tags := s.FieldScore(qc, strings.Join(idea.Tags, " "))

	blended := title*s.config.TitleWeight +
		problem*s.config.ProblemWeight +
		raw*s.config.RawWeight +
		tags*s.config.TagsWeight
	return max(title, blended)
}

// cutoff returns the primary relevance bar for the query.
func (s *Scorer) cutoff(qc *Context) float64 {
	if len(qc.Tokens) >= s.config.LongQueryTokens {
		return s.config.LongQueryMinScore
	}
	return s.config.MinScore
}
