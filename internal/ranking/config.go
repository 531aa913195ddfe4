package ranking

// Config holds the hot score parameters.
type Config struct {
	// Gravity is the exponent applied to the age term. Higher values sink old ideas faster.
	Gravity float64 `yaml:"gravity"` // default: 0.8
	// AgeOffsetHours is added to the age so brand new ideas don't divide by ~0.
	AgeOffsetHours float64 `yaml:"age_offset_hours"` // default: 2
	// MinAgeHours is the floor applied to an idea's age.
	MinAgeHours float64 `yaml:"min_age_hours"` // default: 1
}

// DefaultConfig returns the default hot score parameters.
func DefaultConfig() *Config {
	return &Config{
		Gravity:        0.8,
		AgeOffsetHours: 2,
		MinAgeHours:    1,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Gravity == 0 {
		c.Gravity = defaults.Gravity
	}
	if c.AgeOffsetHours == 0 {
		c.AgeOffsetHours = defaults.AgeOffsetHours
	}
	if c.MinAgeHours == 0 {
		c.MinAgeHours = defaults.MinAgeHours
	}
}
