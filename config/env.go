package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// ApiBaseURL is the root of the math-trade server API. The server is the
// single source of truth; everything this module holds is a projection of it.
func ApiBaseURL() string {
	v := strings.TrimSpace(os.Getenv("MT_API_BASE_URL"))
	if v == "" {
		v = "https://api.mathtrades.com.ar"
	}
	return strings.TrimRight(v, "/")
}

func RequestTimeout() time.Duration {
	return durationSecondsFromEnv("MT_REQUEST_TIMEOUT_SECONDS", 30*time.Second)
}

// DefaultPollingSeconds is the pickup-display refresh interval used until a
// value is written to the display settings store.
func DefaultPollingSeconds() int {
	return intFromEnv("MT_POLLING_SECONDS", 30)
}

// DefaultMaxUsers is the per-window display truncation limit.
func DefaultMaxUsers() int {
	return intFromEnv("MT_DISPLAY_MAX_USERS", 10)
}

func intFromEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func durationSecondsFromEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
