package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type AppConfig struct {
	Port string

	// Session retention.
	SessionMax    int           // max number of live sessions (0 = unlimited)
	SessionMaxAge time.Duration // idle time before a session is discarded (0 = unlimited)

	// PruneInterval controls how often idle sessions are dropped.
	PruneInterval time.Duration
	// RegenerateInterval replaces every session's records on this cadence (0 = never).
	RegenerateInterval time.Duration

	ShutdownTimeout time.Duration
	LogLevel        zapcore.Level
}

// LoadDotEnv loads environment files. With no paths it loads ./.env when present;
// paths named explicitly must exist.
func LoadDotEnv(paths ...string) error {
	if len(paths) > 0 {
		if err := godotenv.Load(paths...); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.SessionMax, err = getenvInt("SESSION_MAX", 1000); err != nil {
		return nil, err
	}
	if cfg.SessionMax < 0 {
		return nil, fmt.Errorf("invalid SESSION_MAX: must be >= 0, got %d", cfg.SessionMax)
	}

	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "30m"); err != nil {
		return nil, err
	}
	if cfg.PruneInterval, err = getenvDuration("PRUNE_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.PruneInterval <= 0 {
		return nil, fmt.Errorf("invalid PRUNE_INTERVAL: must be positive, got %s", cfg.PruneInterval)
	}
	if cfg.RegenerateInterval, err = getenvDuration("REGENERATE_INTERVAL", "0"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: must be positive, got %s", cfg.ShutdownTimeout)
	}

	level, err := zapcore.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative, got %s", key, d)
	}
	return d, nil
}
