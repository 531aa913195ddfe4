package config

// DefaultExtensions are the inbox file types the extractors understand.
var DefaultExtensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/demandsolution.db"
	}
	cfg.Intake.ApplyDefaults()
	cfg.Dedup.ApplyDefaults()
	cfg.Search.ApplyDefaults()
	cfg.Ranking.ApplyDefaults()
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
