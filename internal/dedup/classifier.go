package dedup

import (
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// scorePrecision is the number of decimals kept in a similarity score.
const scorePrecision = 4

const (
	skipFewTokens = "too_few_tokens"
	skipNoOverlap = "no_overlap"
)

// Classifier detects merge targets using a fixed set of thresholds.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	config *Config
}

// NewClassifier creates a Classifier. A nil config uses DefaultConfig.
func NewClassifier(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	c.ApplyDefaults()
	return &Classifier{config: &c}
}

// Config returns a copy of the classifier thresholds.
func (c *Classifier) Config() Config {
	return *c.config
}

var defaultClassifier = NewClassifier(nil)

// DetectMergeTarget returns the best merge target for inputText among candidates,
// or nil when no candidate qualifies. It uses the default thresholds.
func DetectMergeTarget(inputText string, candidates []Candidate) *MergeDecision {
	return defaultClassifier.Detect(inputText, candidates)
}

// Detect returns the best merge target for inputText, or nil.
func (c *Classifier) Detect(inputText string, candidates []Candidate) *MergeDecision {
	return c.classify(inputText, candidates, false).Decision
}

// Explain classifies inputText and also returns one Evaluation per candidate.
func (c *Classifier) Explain(inputText string, candidates []Candidate) *Explanation {
	return c.classify(inputText, candidates, true)
}

func (c *Classifier) classify(inputText string, candidates []Candidate, record bool) *Explanation {
	input := Tokenize(inputText)
	out := &Explanation{InputTokens: input.Sorted(), Evaluations: []Evaluation{}}
	if input.Len() < c.config.MinTokens {
		return out
	}

	var best *MergeDecision
	for _, candidate := range candidates {
		eval := c.evaluate(input, candidate)
		if record {
			out.Evaluations = append(out.Evaluations, eval)
		}
		if eval.Reason == "" {
			continue
		}
		// Strictly greater: on ties the first candidate wins.
		if best == nil || eval.Score > best.SimilarityScore {
			best = &MergeDecision{
				TargetIdeaID:    candidate.ID,
				Reason:          eval.Reason,
				SimilarityScore: utils.Round(eval.Score, scorePrecision),
			}
		}
	}
	out.Decision = best
	return out
}

func (c *Classifier) evaluate(input TokenSet, candidate Candidate) Evaluation {
	tokens := Tokenize(candidate.Text)
	eval := Evaluation{CandidateID: candidate.ID, CandidateTokens: tokens.Len()}
	if tokens.Len() < c.config.MinTokens {
		eval.Skipped = skipFewTokens
		return eval
	}

	overlap := countOverlap(input, tokens)
	eval.Overlap = overlap
	if overlap.All == 0 {
		eval.Skipped = skipNoOverlap
		return eval
	}

	eval.Jaccard = jaccardIndex(overlap.All, input.Len(), tokens.Len())
	eval.Coverage = float64(overlap.All) / float64(input.Len())

	if eval.Jaccard >= c.config.DuplicateJaccard {
		eval.Reason = ReasonDuplicate
		eval.Score = eval.Jaccard
		return eval
	}

	if c.isShortInputSubset(input.Len(), overlap, eval.Coverage) || c.isSubset(overlap, eval.Coverage) {
		eval.Reason = ReasonSubset
		score := max(eval.Coverage, eval.Jaccard)
		if overlap.Bigrams > 0 {
			score += c.config.BigramBonus
		}
		eval.Score = utils.Clamp01(score)
	}
	return eval
}

// isShortInputSubset covers short submissions, which cannot reach a high Jaccard
// against a rich idea even when fully redundant.
func (c *Classifier) isShortInputSubset(inputLen int, o Overlap, coverage float64) bool {
	return inputLen <= c.config.ShortInputMaxTokens &&
		o.Unigrams >= c.config.ShortInputMinUnigrams &&
		coverage >= c.config.ShortInputCoverage &&
		(o.Bigrams >= 1 || o.Unigrams >= c.config.ShortInputStrongUnigrams)
}

func (c *Classifier) isSubset(o Overlap, coverage float64) bool {
	return o.Unigrams >= c.config.SubsetMinUnigrams && coverage >= c.config.SubsetCoverage
}

func countOverlap(a, b TokenSet) Overlap {
	var o Overlap
	for tok := range a {
		if !b.Contains(tok) {
			continue
		}
		o.All++
		if IsBigram(tok) {
			o.Bigrams++
		} else {
			o.Unigrams++
		}
	}
	return o
}

// jaccardIndex is overlap / (sizeA + sizeB - overlap).
func jaccardIndex(overlap, sizeA, sizeB int) float64 {
	union := sizeA + sizeB - overlap
	if union <= 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}
