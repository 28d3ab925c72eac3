// Package config loads runtime configuration from the environment. A .env
// file in the working directory is applied first, then CONCLAVE_* variables
// override it.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration of a conclave run.
type Config struct {
	Pipeline PipelineConfig
	Review   ReviewConfig
	Export   ExportConfig

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"CONCLAVE_LOG_LEVEL" default:"info"`
}

// PipelineConfig tunes the role loop.
type PipelineConfig struct {
	Model       string `envconfig:"CONCLAVE_MODEL" default:"gpt-4o-mini"`
	MaxAttempts int    `envconfig:"CONCLAVE_MAX_ATTEMPTS" default:"3"`

	// Roles is a comma-separated role sequence. Empty selects the default
	// five-role pipeline.
	Roles string `envconfig:"CONCLAVE_ROLES"`

	// RatesFile optionally points to a YAML file whose model rates are
	// merged over the built-in pricing table.
	RatesFile string `envconfig:"CONCLAVE_RATES_FILE"`
}

// ReviewConfig tunes interactive mode.
type ReviewConfig struct {
	MaxRevisions int `envconfig:"CONCLAVE_MAX_REVISIONS" default:"3"`

	// ExhaustionPolicy decides a turn whose revision cap is reached:
	// "reject" or "approve".
	ExhaustionPolicy string `envconfig:"CONCLAVE_EXHAUSTION_POLICY" default:"reject"`

	// DecisionTimeoutSeconds bounds the wait for one human decision.
	// Zero means wait indefinitely.
	DecisionTimeoutSeconds int `envconfig:"CONCLAVE_DECISION_TIMEOUT_SECONDS" default:"0"`
}

// ExportConfig controls report output.
type ExportConfig struct {
	ReportDir string `envconfig:"CONCLAVE_REPORT_DIR" default:"qa_reports"`
}

// Load reads .env (when present) and the process environment, then validates
// the result.
func Load() (*Config, error) {
	// A missing .env file is not an error; explicit environment wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("CONCLAVE_MAX_ATTEMPTS must be at least 1, got %d", c.Pipeline.MaxAttempts)
	}
	if c.Review.MaxRevisions < 0 {
		return fmt.Errorf("CONCLAVE_MAX_REVISIONS must not be negative, got %d", c.Review.MaxRevisions)
	}
	switch c.Review.ExhaustionPolicy {
	case "reject", "approve":
	default:
		return fmt.Errorf("CONCLAVE_EXHAUSTION_POLICY must be reject or approve, got %q", c.Review.ExhaustionPolicy)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("CONCLAVE_LOG_LEVEL must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}
