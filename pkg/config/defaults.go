package config

import "strings"

// ApplyDefaults fills in defaults for any unspecified configuration fields.
// Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDiscardDefaults(&cfg.Discard)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalized to uppercase for consistent internal representation.
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyDiscardDefaults(cfg *DiscardConfig) {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 16
	}
}

// GetDefaultConfig returns a fully defaulted configuration.
func GetDefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
