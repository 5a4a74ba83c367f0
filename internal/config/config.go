// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-chi-calculator/internal/calculator"
)

// Config holds everything cmd/api needs to start.
type Config struct {
	Addr            string
	LogLevel        string
	LogDevelopment  bool
	OTLPLogs        bool
	ShutdownTimeout time.Duration
	SweepInterval   time.Duration

	Store calculator.StoreOptions
}

// Load reads the CALC_* variables, falling back to defaults for unset ones.
// Session defaults are validated like any other settings.
func Load() (Config, error) {
	cfg := Config{
		Addr:     envString("CALC_ADDR", ":8080"),
		LogLevel: envString("CALC_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LogDevelopment, err = envBool("CALC_LOG_DEVELOPMENT", false); err != nil {
		return Config{}, err
	}
	if cfg.OTLPLogs, err = envBool("CALC_OTLP_LOGS", false); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = envDuration("CALC_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Store.MaxSessions, err = envInt("CALC_MAX_SESSIONS", calculator.DefaultMaxSessions); err != nil {
		return Config{}, err
	}
	if cfg.Store.SessionTTL, err = envDuration("CALC_SESSION_TTL", calculator.DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	cfg.SweepInterval = max(cfg.Store.SessionTTL/4, time.Second)

	defaults := calculator.DefaultSettings()
	if defaults.UsesRadians, err = envBool("CALC_USE_RADIANS", defaults.UsesRadians); err != nil {
		return Config{}, err
	}
	comma, err := envBool("CALC_DECIMAL_COMMA", !defaults.UsesPointAsDecimalSeparator)
	if err != nil {
		return Config{}, err
	}
	defaults.UsesPointAsDecimalSeparator = !comma
	if defaults.RoundingPrecision, err = envInt("CALC_ROUNDING_PRECISION", defaults.RoundingPrecision); err != nil {
		return Config{}, err
	}
	if defaults.MaxNumberOfResult, err = envInt("CALC_MAX_HISTORY", defaults.MaxNumberOfResult); err != nil {
		return Config{}, err
	}
	if err := defaults.Validate(); err != nil {
		return Config{}, fmt.Errorf("session defaults: %w", err)
	}
	cfg.Store.Defaults = defaults

	if cfg.Store.MaxSessions < 1 {
		return Config{}, fmt.Errorf("CALC_MAX_SESSIONS must be at least 1, got %d", cfg.Store.MaxSessions)
	}
	if cfg.Store.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("CALC_SESSION_TTL must be positive, got %s", cfg.Store.SessionTTL)
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
