// Package config loads the optional YAML configuration file. Flags
// override anything set here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudreaper/reap/internal/emitter"
	"github.com/cloudreaper/reap/policy"
)

// Config is the file-backed configuration.
type Config struct {
	Slack       SlackConfig          `yaml:"slack,omitempty"`
	Influx      emitter.InfluxConfig `yaml:"influx,omitempty"`
	Retry       RetryConfig          `yaml:"retry,omitempty"`
	Daemon      DaemonConfig         `yaml:"daemon,omitempty"`
	Concurrency int                  `yaml:"concurrency,omitempty"`
	MissingAge  string               `yaml:"missing_age,omitempty"`
	JournalDir  string               `yaml:"journal_dir,omitempty"`

	// KMSPendingWindowDays is the AWS KMS deletion waiting period,
	// 7 to 30 days.
	KMSPendingWindowDays int32 `yaml:"kms_pending_window_days,omitempty"`
}

// SlackConfig enables the Slack notifier when both fields are set.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Enabled reports whether notifications should be sent.
func (s SlackConfig) Enabled() bool { return s.Token != "" && s.Channel != "" }

// RetryConfig bounds mutation retries.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Initial     time.Duration `yaml:"initial"`
	Step        time.Duration `yaml:"step"`
}

// DaemonConfig configures `reap daemon`.
type DaemonConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Retry:       RetryConfig{MaxAttempts: 3, Initial: time.Second, Step: time.Second},
		Daemon:      DaemonConfig{Interval: time.Hour, MetricsAddr: ":9090"},
		Concurrency: 4,
		JournalDir:  "journal",
	}
}

// Load reads the file at path, merged over defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.MissingAge != "" {
		if _, err := policy.ParseMissingAgePolicy(c.MissingAge); err != nil {
			return err
		}
	}
	if c.KMSPendingWindowDays != 0 && (c.KMSPendingWindowDays < 7 || c.KMSPendingWindowDays > 30) {
		return fmt.Errorf("kms_pending_window_days must be between 7 and 30")
	}
	if c.Daemon.Interval < 0 {
		return fmt.Errorf("daemon.interval must not be negative")
	}
	return nil
}
