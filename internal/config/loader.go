// loader.go implements the configuration loading lifecycle:
//
//  1. Enforce UTC to prevent timezone drift between forecast timestamps,
//     daylight math, and calendar events.
//  2. Load a .env file via godotenv (non-fatal if absent).
//  3. Process envconfig struct tags into the Config struct.
//  4. Validate with go-playground/validator.
//
// Any missing required value or invalid format fails the load; callers are
// expected to abort startup (fail fast).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"meteogram/internal/types"
)

// LoadConfig loads and validates the pipeline configuration from the
// environment (optionally seeded from a .env file).
func LoadConfig() (*Config, error) {
	// Forecast, daylight, and calendar timestamps all compare against each
	// other; a non-UTC process clock breaks those comparisons silently.
	time.Local = time.UTC

	// godotenv does not override variables already set in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			"processing environment configuration", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate applies struct-tag validation plus the cross-field rules the
// tags cannot express.
func validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return types.NewAppError(types.ErrCodeConfigInvalid,
			"configuration failed validation", err)
	}

	if len(cfg.Calendars.Colors) > len(cfg.Calendars.URLs) {
		return types.NewAppError(types.ErrCodeConfigInvalid,
			fmt.Sprintf("%d calendar colors configured for %d calendar URLs",
				len(cfg.Calendars.Colors), len(cfg.Calendars.URLs)), nil)
	}
	return nil
}
