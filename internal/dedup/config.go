package dedup

// Config holds the merge classification thresholds. The defaults were tuned by hand
// against real submissions; change them together, not one at a time.
type Config struct {
	// MinTokens is the token count below which a text carries too little signal.
	MinTokens int `yaml:"min_tokens"` // default: 3
	// DuplicateJaccard is the symmetric overlap at which two ideas are the same idea.
	DuplicateJaccard float64 `yaml:"duplicate_jaccard"` // default: 0.58

	// Short submissions are subsets when most of their concepts already exist.
	ShortInputMaxTokens      int     `yaml:"short_input_max_tokens"`      // default: 10
	ShortInputMinUnigrams    int     `yaml:"short_input_min_unigrams"`    // default: 2
	ShortInputCoverage       float64 `yaml:"short_input_coverage"`        // default: 0.55
	ShortInputStrongUnigrams int     `yaml:"short_input_strong_unigrams"` // default: 3

	// Longer submissions need more shared words and higher coverage.
	SubsetMinUnigrams int     `yaml:"subset_min_unigrams"` // default: 3
	SubsetCoverage    float64 `yaml:"subset_coverage"`     // default: 0.66

	// BigramBonus is added to a subset score when a multi-word concept is shared.
	BigramBonus float64 `yaml:"bigram_bonus"` // default: 0.06

	// CandidateWindow is how many recent ideas the intake compares a submission against.
	CandidateWindow int `yaml:"candidate_window"` // default: 200
}

// DefaultConfig returns the default merge thresholds.
func DefaultConfig() *Config {
	return &Config{
		MinTokens:                3,
		DuplicateJaccard:         0.58,
		ShortInputMaxTokens:      10,
		ShortInputMinUnigrams:    2,
		ShortInputCoverage:       0.55,
		ShortInputStrongUnigrams: 3,
		SubsetMinUnigrams:        3,
		SubsetCoverage:           0.66,
		BigramBonus:              0.06,
		CandidateWindow:          200,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.MinTokens == 0 {
		c.MinTokens = d.MinTokens
	}
	if c.DuplicateJaccard == 0 {
		c.DuplicateJaccard = d.DuplicateJaccard
	}
	if c.ShortInputMaxTokens == 0 {
		c.ShortInputMaxTokens = d.ShortInputMaxTokens
	}
	if c.ShortInputMinUnigrams == 0 {
		c.ShortInputMinUnigrams = d.ShortInputMinUnigrams
	}
	if c.ShortInputCoverage == 0 {
		c.ShortInputCoverage = d.ShortInputCoverage
	}
	if c.ShortInputStrongUnigrams == 0 {
		c.ShortInputStrongUnigrams = d.ShortInputStrongUnigrams
	}
	if c.SubsetMinUnigrams == 0 {
		c.SubsetMinUnigrams = d.SubsetMinUnigrams
	}
	if c.SubsetCoverage == 0 {
		c.SubsetCoverage = d.SubsetCoverage
	}
	if c.BigramBonus == 0 {
		c.BigramBonus = d.BigramBonus
	}
	if c.CandidateWindow == 0 {
		c.CandidateWindow = d.CandidateWindow
	}
}
