package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSessionSecret = "dev-secret-change-in-production"

var ErrProductionSecret = errors.New("SESSION_SECRET must be set in production environment")

type Config struct {
	Port           string
	Env            string
	SessionSecret  string
	SessionTTL     time.Duration
	CopyResetDelay time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment and exits on an
// unusable production setup.
func Load() Config {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// FromEnv reads the configuration from the environment with fallbacks.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		SessionSecret:  getEnv("SESSION_SECRET", devSessionSecret),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),
		CopyResetDelay: getDuration("COPY_RESET_DELAY", 2*time.Second),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
	}
}

// Validate rejects settings that must not reach production.
func (c Config) Validate() error {
	if c.Env == "production" && c.SessionSecret == devSessionSecret {
		return ErrProductionSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}
