// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/platform/runpod"
	"github.com/imamik/imagepod/internal/platform/s3"
	"github.com/imamik/imagepod/internal/provisioning"
)

// apiKeyEnv names the environment variable holding the RunPod API key.
const apiKeyEnv = "RUNPOD_API_KEY"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newPodClient creates a RunPod API client.
	newPodClient = func(apiKey string, requestTimeout time.Duration) runpod.PodClient {
		return runpod.NewRealClient(apiKey, runpod.WithRequestTimeout(requestTimeout))
	}

	// newBucketChecker creates the client used for the output-bucket preflight.
	newBucketChecker = func(ctx context.Context, opts s3.Options) (s3.BucketChecker, error) {
		return s3.NewClient(ctx, opts)
	}

	// newOrchestrator creates the pod lifecycle orchestrator.
	newOrchestrator = provisioning.NewOrchestrator

	// checkServiceHealth probes the deployed service.
	checkServiceHealth = provisioning.CheckServiceHealth

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile
)

// apiKey returns the RunPod API key from the environment.
func apiKey() (string, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable is required", apiKeyEnv)
	}
	return key, nil
}

// withCredentialHint adds a pointer to the API key variable when the
// provider rejected the credentials.
func withCredentialHint(err error) error {
	if runpod.IsUnauthorized(err) {
		return fmt.Errorf("%w (check %s)", err, apiKeyEnv)
	}
	return err
}

// verbosity maps the --verbose flag onto a logr V-level.
func verbosity(verbose bool) int {
	if verbose {
		return 1
	}
	return 0
}
