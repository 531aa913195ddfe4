package search

// Config holds the fuzzy scoring weights, the relevance cutoffs and the engine limits.
type Config struct {
	// Per-field blend of token similarity and trigram overlap.
	TokenWeight   float64 `yaml:"token_weight"`   // default: 0.72
	TrigramWeight float64 `yaml:"trigram_weight"` // default: 0.28

	// Per-idea blend of field scores.
	TitleWeight   float64 `yaml:"title_weight"`   // default: 0.42
	ProblemWeight float64 `yaml:"problem_weight"` // default: 0.30
	RawWeight     float64 `yaml:"raw_weight"`     // default: 0.20
	TagsWeight    float64 `yaml:"tags_weight"`    // default: 0.08

	// Cutoffs. Longer queries accumulate more partial credit, so they get a lower bar.
	MinScore          float64 `yaml:"min_score"`            // default: 0.36
	LongQueryMinScore float64 `yaml:"long_query_min_score"` // default: 0.30
	LongQueryTokens   int     `yaml:"long_query_tokens"`    // default: 4
	FallbackMinScore  float64 `yaml:"fallback_min_score"`   // default: 0.24

	// CandidateWindow is how many recent ideas are fuzzy-ranked per query.
	CandidateWindow int `yaml:"candidate_window"` // default: 300
	DefaultLimit    int `yaml:"default_limit"`    // default: 10
	MaxLimit        int `yaml:"max_limit"`        // default: 50
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenWeight:   0.72,
		TrigramWeight: 0.28,

		TitleWeight:   0.42,
		ProblemWeight: 0.30,
		RawWeight:     0.20,
		TagsWeight:    0.08,

		MinScore:          0.36,
		LongQueryMinScore: 0.30,
		LongQueryTokens:   4,
		FallbackMinScore:  0.24,

		CandidateWindow: 300,
		DefaultLimit:    10,
		MaxLimit:        50,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	// Weights
	if c.TokenWeight == 0 {
		c.TokenWeight = defaults.TokenWeight
	}
	if c.TrigramWeight == 0 {
		c.TrigramWeight = defaults.TrigramWeight
	}
	if c.TitleWeight == 0 {
		c.TitleWeight = defaults.TitleWeight
	}
	if c.ProblemWeight == 0 {
		c.ProblemWeight = defaults.ProblemWeight
	}
	if c.RawWeight == 0 {
		c.RawWeight = defaults.RawWeight
	}
	if c.TagsWeight == 0 {
		c.TagsWeight = defaults.TagsWeight
	}

	// Cutoffs
	if c.MinScore == 0 {
		c.MinScore = defaults.MinScore
	}
	if c.LongQueryMinScore == 0 {
		c.LongQueryMinScore = defaults.LongQueryMinScore
	}
	if c.LongQueryTokens == 0 {
		c.LongQueryTokens = defaults.LongQueryTokens
	}
	if c.FallbackMinScore == 0 {
		c.FallbackMinScore = defaults.FallbackMinScore
	}

	// Limits
	if c.CandidateWindow == 0 {
		c.CandidateWindow = defaults.CandidateWindow
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = defaults.DefaultLimit
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = defaults.MaxLimit
	}
}
