// Package config loads runtime configuration from defaults, an optional
// YAML file, and SI_-prefixed environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the binaries share.
type Config struct {
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Model is the Gemini model used for parsing and categorization.
	Model string `mapstructure:"model"`

	// MaxAttempts is how many parse attempts a document gets before it is
	// reported as failed.
	MaxAttempts int `mapstructure:"max_attempts"`

	// RetryBackoff is the pause between attempts.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`

	// OutputDir receives per-statement and combined JSON files.
	OutputDir string `mapstructure:"output_dir"`

	// Workers is the job queue consumer pool size.
	Workers int `mapstructure:"workers"`

	// HTTPAddr is the API server listen address.
	HTTPAddr string `mapstructure:"http_addr"`

	// GCSBucket, when set, is where source statements are fetched from and
	// results mirrored to.
	GCSBucket string `mapstructure:"gcs_bucket"`

	// BigQuery run ledger settings. An empty project disables the ledger.
	BigQueryProject string `mapstructure:"bigquery_project"`
	BigQueryDataset string `mapstructure:"bigquery_dataset"`
}

// Load reads configuration. configFile may be empty; missing files are not
// an error so binaries run on defaults plus environment alone.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("max_attempts", 3)
	v.SetDefault("retry_backoff", 2*time.Second)
	v.SetDefault("output_dir", "output")
	v.SetDefault("workers", 5)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("bigquery_project", "")
	v.SetDefault("bigquery_dataset", "statement_insights")

	v.SetEnvPrefix("SI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: read %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("config: retry_backoff must not be negative, got %s", c.RetryBackoff)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir must not be empty")
	}
	return nil
}
