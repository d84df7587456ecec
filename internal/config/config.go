package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// API auth, empty disables the check
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Embed fetching
	FetchEmbeds        bool
	MaxConcurrentFetch int
	FetchTimeout       time.Duration

	// Logging
	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("INKDOWN_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		FetchEmbeds:        envBool("FETCH_EMBEDS", false),
		MaxConcurrentFetch: envInt("MAX_CONCURRENT_FETCH", 8),
		FetchTimeout:       envDuration("FETCH_TIMEOUT", 30*time.Second),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 8
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
