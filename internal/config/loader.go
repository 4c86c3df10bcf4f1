package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultFilePermission = 0o644

// defaultFile is written verbatim when no config file exists.
const defaultFile = `[general]
# Set to false to disable the hook entirely
enable = true
# Timeout for requests to the scoring service, in milliseconds
timeout = 3000
# Log requests instead of sending them
debug = false
# debug, info, warn or error
log_level = "info"
# Address for the Prometheus /metrics listener, empty to disable
metrics_addr = ""

[cards]
# Card ids allowed to submit scores. Leave empty to allow every card.
whitelist = []

[tachi]
base_url = "https://kamai.tachi.ac"
api_key = "your-key-here"
`

// Load builds a Config by layering defaults, the TOML file at path and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file at path, created with documented defaults if missing
//  3. env (prefix TAKURE_, "__" separates sections: TAKURE_GENERAL__DEBUG)
func Load(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := EnsureFile(path); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), TOML()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	envProvider := env.Provider("TAKURE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "takure_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New(ctx)
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureFile writes the default config to path when nothing exists there.
func EnsureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrWriteDefault, err)
	}
	if err := os.WriteFile(path, []byte(defaultFile), defaultFilePermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDefault, err)
	}
	return nil
}

// Validate checks the fields the hook cannot run without.
func (c *Config) Validate() error {
	if c.General.TimeoutMS < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.General.Enable && !c.General.Debug && strings.TrimSpace(c.Tachi.BaseURL) == "" {
		return fmt.Errorf("%w: tachi.base_url must not be empty", ErrInvalidConfig)
	}
	return nil
}
