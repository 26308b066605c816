/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config layers the process configuration: built-in defaults, then an
// optional TOML file, then DECKPLAN_* environment variables, last write wins.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/caarlos0/env/v6"
	"github.com/imdario/mergo"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config is the full process configuration. Zero values mean "not set" to the
// merge, which is why numeric settings keep non-zero defaults.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" env:"DECKPLAN_LOG_LEVEL"`
	// LogFormat is json or console.
	LogFormat string `toml:"log_format" env:"DECKPLAN_LOG_FORMAT"`
	// Listen is the API bind address.
	Listen string `toml:"listen" env:"DECKPLAN_LISTEN"`
	// DatabaseURL is the Postgres DSN. Empty disables persistence-backed
	// commands (import, serve).
	DatabaseURL string `toml:"database_url" env:"DECKPLAN_DATABASE_URL"`
	// NATSURL is the event broker address. Empty disables publishing.
	NATSURL string `toml:"nats_url" env:"DECKPLAN_NATS_URL"`
	// AllowedOrigins is the CORS allow-list for the API.
	AllowedOrigins []string `toml:"allowed_origins" env:"DECKPLAN_ALLOWED_ORIGINS" envSeparator:","`
	// RateRPS and RateBurst shape the API token bucket.
	RateRPS   float64 `toml:"rate_rps" env:"DECKPLAN_RATE_RPS"`
	RateBurst int     `toml:"rate_burst" env:"DECKPLAN_RATE_BURST"`
	// PlanDays is the horizon used when a request does not name one.
	PlanDays int `toml:"plan_days" env:"DECKPLAN_PLAN_DAYS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "console",
		Listen:         ":8080",
		AllowedOrigins: []string{"*"},
		RateRPS:        50,
		RateBurst:      100,
		PlanDays:       7,
	}
}

// Load assembles the configuration. path may be empty, in which case only
// defaults and the environment apply; a named file that does not exist is an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		var file Config
		if err := toml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if err := mergo.Merge(&cfg, file, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging config file: %w", err)
		}
	}
	var environment Config
	if err := env.Parse(&environment); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := mergo.Merge(&cfg, environment, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		err = multierr.Append(err, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if !slices.Contains([]string{"json", "console"}, c.LogFormat) {
		err = multierr.Append(err, fmt.Errorf("log_format %q is not json or console", c.LogFormat))
	}
	if c.Listen == "" {
		err = multierr.Append(err, fmt.Errorf("listen address is required"))
	}
	if c.RateRPS <= 0 {
		err = multierr.Append(err, fmt.Errorf("rate_rps must be positive, got %v", c.RateRPS))
	}
	if c.RateBurst < 1 {
		err = multierr.Append(err, fmt.Errorf("rate_burst must be at least 1, got %d", c.RateBurst))
	}
	if c.PlanDays < 1 {
		err = multierr.Append(err, fmt.Errorf("plan_days must be at least 1, got %d", c.PlanDays))
	}
	return err
}

// Logger builds the process logger described by the configuration.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zapConfig := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
