package utils

import (
	"os"
	"strings"
	"time"
)

// EnvOrDefault returns the env value or the fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// DurationFromEnv parses a Go duration from the environment, e.g.
// RESERVATION_WINDOW=48h. Invalid or missing values yield def.
func DurationFromEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
