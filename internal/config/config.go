// Package config defines the hook configuration and its loading from takure.toml.
//
// Conventions:
// - New(ctx) returns the documented defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// DefaultPath is the config file looked up next to the game executable.
const DefaultPath = "takure.toml"

// Config contains the hook configuration.
type Config struct {
	General General `koanf:"general"`
	Cards   Cards   `koanf:"cards"`
	Tachi   Tachi   `koanf:"tachi"`
}

// General holds module-wide switches.
type General struct {
	// Enable turns the whole hook on or off.
	Enable bool `koanf:"enable"`

	// TimeoutMS bounds each request to the scoring service.
	TimeoutMS int `koanf:"timeout"`

	// Debug skips every network call and logs the would-be requests instead.
	Debug bool `koanf:"debug"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr, when set, exposes Prometheus metrics on this address.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Cards restricts which cards may submit scores.
type Cards struct {
	// Whitelist lists the card ids allowed to submit; empty allows all.
	Whitelist []string `koanf:"whitelist"`
}

// Tachi configures the remote scoring service.
type Tachi struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		General: General{
			Enable:    true,
			TimeoutMS: 3000,
			LogLevel:  "info",
		},
		Cards: Cards{
			Whitelist: []string{},
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.General.TimeoutMS) * time.Millisecond
}
