package intake

import "time"

// Config holds the submission policy.
type Config struct {
	// RateLimitPerHour is how many submissions one anonymous id and address pair may make per hour.
	RateLimitPerHour int `yaml:"rate_limit_per_hour"` // default: 5
	// RateLimitWindow is the window RateLimitPerHour applies to.
	RateLimitWindow time.Duration `yaml:"rate_limit_window"` // default: 1h
	// GenerateTimeout bounds one spec generation call.
	GenerateTimeout time.Duration `yaml:"generate_timeout"` // default: 30s
}

// DefaultConfig returns the default submission policy.
func DefaultConfig() *Config {
	return &Config{
		RateLimitPerHour: 5,
		RateLimitWindow:  time.Hour,
		GenerateTimeout:  30 * time.Second,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.RateLimitPerHour == 0 {
		c.RateLimitPerHour = d.RateLimitPerHour
	}
	if c.RateLimitWindow == 0 {
		c.RateLimitWindow = d.RateLimitWindow
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = d.GenerateTimeout
	}
}
