package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var timeoutEnvVars = []string{
	"IMAGEPOD_TIMEOUT_READY",
	"IMAGEPOD_POLL_INTERVAL",
	"IMAGEPOD_MIN_STABLE_UPTIME",
	"IMAGEPOD_HTTP_TIMEOUT",
	"IMAGEPOD_HEALTH_TIMEOUT",
	"IMAGEPOD_RETRY_MAX_ATTEMPTS",
	"IMAGEPOD_RETRY_INITIAL_DELAY",
}

func clearTimeoutEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range timeoutEnvVars {
		t.Setenv(name, "")
	}
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	assert.Equal(t, 15*time.Minute, timeouts.Ready)
	assert.Equal(t, 15*time.Second, timeouts.PollInterval)
	assert.Equal(t, 30*time.Second, timeouts.MinStableUptime)
	assert.Equal(t, 30*time.Second, timeouts.HTTPRequest)
	assert.Equal(t, 10*time.Minute, timeouts.HealthCheck)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, 2*time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("IMAGEPOD_TIMEOUT_READY", "20m")
	t.Setenv("IMAGEPOD_POLL_INTERVAL", "5s")
	t.Setenv("IMAGEPOD_MIN_STABLE_UPTIME", "1m")
	t.Setenv("IMAGEPOD_HTTP_TIMEOUT", "10s")
	t.Setenv("IMAGEPOD_HEALTH_TIMEOUT", "3m")
	t.Setenv("IMAGEPOD_RETRY_MAX_ATTEMPTS", "8")
	t.Setenv("IMAGEPOD_RETRY_INITIAL_DELAY", "500ms")

	timeouts := LoadTimeouts()

	assert.Equal(t, 20*time.Minute, timeouts.Ready)
	assert.Equal(t, 5*time.Second, timeouts.PollInterval)
	assert.Equal(t, time.Minute, timeouts.MinStableUptime)
	assert.Equal(t, 10*time.Second, timeouts.HTTPRequest)
	assert.Equal(t, 3*time.Minute, timeouts.HealthCheck)
	assert.Equal(t, 8, timeouts.RetryMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_InvalidValuesFallBack(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("IMAGEPOD_POLL_INTERVAL", "soon")
	t.Setenv("IMAGEPOD_MIN_STABLE_UPTIME", "-5s")
	t.Setenv("IMAGEPOD_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	assert.Equal(t, 15*time.Second, timeouts.PollInterval)
	assert.Equal(t, 30*time.Second, timeouts.MinStableUptime)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
}
