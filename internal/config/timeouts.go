package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timing values.
// These values can be customized via environment variables.
type Timeouts struct {
	Ready             time.Duration // Hard bound on waiting for a pod to become ready
	PollInterval      time.Duration // Wait between two status polls
	MinStableUptime   time.Duration // Uptime a RUNNING pod must report before it counts as ready
	HTTPRequest       time.Duration // Per-request timeout for provider API calls
	HealthCheck       time.Duration // Bound on the post-ready service health probe
	RetryMaxAttempts  int           // Maximum number of retry attempts for the health probe
	RetryInitialDelay time.Duration // Initial delay between health probe retries
}

// LoadTimeouts loads timing configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - IMAGEPOD_TIMEOUT_READY (default: 15m)
//   - IMAGEPOD_POLL_INTERVAL (default: 15s)
//   - IMAGEPOD_MIN_STABLE_UPTIME (default: 30s)
//   - IMAGEPOD_HTTP_TIMEOUT (default: 30s)
//   - IMAGEPOD_HEALTH_TIMEOUT (default: 10m)
//   - IMAGEPOD_RETRY_MAX_ATTEMPTS (default: 5)
//   - IMAGEPOD_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Ready:             parseDuration("IMAGEPOD_TIMEOUT_READY", 15*time.Minute),
		PollInterval:      parseDuration("IMAGEPOD_POLL_INTERVAL", 15*time.Second),
		MinStableUptime:   parseDuration("IMAGEPOD_MIN_STABLE_UPTIME", 30*time.Second),
		HTTPRequest:       parseDuration("IMAGEPOD_HTTP_TIMEOUT", 30*time.Second),
		HealthCheck:       parseDuration("IMAGEPOD_HEALTH_TIMEOUT", 10*time.Minute),
		RetryMaxAttempts:  parseInt("IMAGEPOD_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("IMAGEPOD_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
