package dedup

// MergeReason says why a submission was merged into an existing idea.
type MergeReason string

const (
	// ReasonDuplicate means both texts describe essentially the same concept.
	ReasonDuplicate MergeReason = "DUPLICATE"
	// ReasonSubset means the submission is wholly covered by a richer existing idea.
	ReasonSubset MergeReason = "SUBSET"
)

// String returns the wire form of the reason.
func (r MergeReason) String() string {
	return string(r)
}

// Candidate is an existing idea a submission is compared against. Text is the
// concatenation of the idea's raw input, title and problem statement.
type Candidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MergeDecision is the chosen merge target for a submission.
type MergeDecision struct {
	TargetIdeaID    string      `json:"target_idea_id"`
	Reason          MergeReason `json:"reason"`
	SimilarityScore float64     `json:"similarity_score"`
}

// Overlap counts the tokens two sets share.
type Overlap struct {
	All      int `json:"all"`
	Unigrams int `json:"unigrams"`
	Bigrams  int `json:"bigrams"`
}

// Evaluation records how one candidate was scored against the input.
type Evaluation struct {
	CandidateID     string      `json:"candidate_id"`
	CandidateTokens int         `json:"candidate_tokens"`
	Overlap         Overlap     `json:"overlap"`
	Jaccard         float64     `json:"jaccard"`
	Coverage        float64     `json:"coverage"`
	Reason          MergeReason `json:"reason,omitempty"`
	Score           float64     `json:"score"`
	// Skipped is set when the candidate was not scored (too few tokens or no overlap).
	Skipped string `json:"skipped,omitempty"`
}

// Explanation is the full trace of a classification.
type Explanation struct {
	InputTokens []string       `json:"input_tokens"`
	Decision    *MergeDecision `json:"decision"`
	Evaluations []Evaluation   `json:"evaluations"`
}
