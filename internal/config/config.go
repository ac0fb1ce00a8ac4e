// Package config defines command configuration and its loading hooks.
//
// Layering order (low to high): struct defaults, an optional YAML file named
// by TIMELINE_CONFIG, then TIMELINE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config carries process configuration for the timeline commands.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ContentDir points at the directory holding the content documents.
	// Ignored when ContentURL is set.
	ContentDir string `koanf:"content_dir"`

	// ContentURL fetches the content documents from a base URL instead of
	// the local directory.
	ContentURL string `koanf:"content_url"`

	// Theme and ThemeVariant select the render theme.
	Theme        string `koanf:"theme"`
	ThemeVariant string `koanf:"theme_variant"`

	// FetchAttempts bounds the per-document retry budget.
	FetchAttempts int `koanf:"fetch_attempts"`

	// FetchBaseDelayMS is the base retry delay in milliseconds; attempt n
	// waits n times this value.
	FetchBaseDelayMS int `koanf:"fetch_base_delay_ms"`

	// ReadyTimeoutMS bounds the wait for template readiness.
	ReadyTimeoutMS int `koanf:"ready_timeout_ms"`

	// MetricsEnabled switches Prometheus collection on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// SMTP settings enable the failure notifier when Host is non-empty.
	SMTPHost string `koanf:"smtp_host"`
	SMTPPort int    `koanf:"smtp_port"`
	SMTPUser string `koanf:"smtp_user"`
	SMTPPass string `koanf:"smtp_pass"`
	SMTPFrom string `koanf:"smtp_from"`
	SMTPTo   string `koanf:"smtp_to"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		ContentDir:       "content",
		FetchAttempts:    3,
		FetchBaseDelayMS: 1000,
		ReadyTimeoutMS:   10_000,
		MetricsEnabled:   true,
		SMTPPort:         587,
	}
}

// FetchBaseDelay returns the configured base delay as a duration.
func (c *Config) FetchBaseDelay() time.Duration {
	return time.Duration(c.FetchBaseDelayMS) * time.Millisecond
}

// ReadyTimeout returns the configured readiness bound as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMS) * time.Millisecond
}

// NotifierEnabled reports whether the SMTP notifier should be wired.
func (c *Config) NotifierEnabled() bool {
	return c.SMTPHost != ""
}

// Validate checks the configuration before use.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if c.ContentDir == "" && c.ContentURL == "" {
		return errors.New("config: one of content_dir or content_url is required")
	}
	if c.FetchAttempts <= 0 {
		return fmt.Errorf("config: fetch_attempts must be positive, got %d", c.FetchAttempts)
	}
	if c.FetchBaseDelayMS < 0 {
		return fmt.Errorf("config: fetch_base_delay_ms must not be negative, got %d", c.FetchBaseDelayMS)
	}
	if c.ReadyTimeoutMS <= 0 {
		return fmt.Errorf("config: ready_timeout_ms must be positive, got %d", c.ReadyTimeoutMS)
	}
	if c.NotifierEnabled() {
		if c.SMTPFrom == "" || c.SMTPTo == "" {
			return errors.New("config: smtp_from and smtp_to are required when smtp_host is set")
		}
		if c.SMTPPort <= 0 {
			return fmt.Errorf("config: smtp_port must be positive, got %d", c.SMTPPort)
		}
	}
	return nil
}
