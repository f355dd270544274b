package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/platform/s3"
	"github.com/imamik/imagepod/internal/provisioning"
	"github.com/imamik/imagepod/internal/util/retry"
)

// DeployOptions holds the flags of the deploy command.
// Zero durations leave the environment or default value in place.
type DeployOptions struct {
	ConfigPath      string
	Timeout         time.Duration
	PollInterval    time.Duration
	// MinStableUptime is nil when not given; zero disables the threshold.
	MinStableUptime *time.Duration

	HealthCheck   bool
	SkipPreflight bool
	MetricsFile   string
	JSONOutput    bool
	Verbose       bool
}

// Deploy creates a pod from the deployment file and waits until it is ready.
//
// The workflow:
//  1. Loads the deployment file and resolves environment credentials
//  2. Builds and validates the provision request (no API calls yet)
//  3. Verifies the output bucket exists, unless skipped
//  4. Creates the pod once and polls it until ready, failed, or timed out
//  5. Optionally probes the service health endpoint through the proxy
//  6. Prints the summary and writes metrics if requested
//
// A failed deployment returns an error after the summary is printed, so
// the id of a pod left behind is always shown.
func Deploy(ctx context.Context, opts DeployOptions) error {
	return deploy(ctx, os.Stdout, opts)
}

func deploy(ctx context.Context, out io.Writer, opts DeployOptions) error {
	cfg, err := loadDeployment(opts.ConfigPath)
	if err != nil {
		return err
	}

	req, err := provisioning.BuildRequest(cfg)
	if err != nil {
		return err
	}

	key, err := apiKey()
	if err != nil {
		return err
	}

	timeouts := config.LoadTimeouts()
	applyTimingFlags(timeouts, opts)
	awaitOpts := provisioning.AwaitOptionsFromTimeouts(timeouts)
	if err := awaitOpts.Validate(); err != nil {
		return err
	}

	if cfg.Service.S3Bucket != "" && !opts.SkipPreflight {
		if err := preflightBucket(ctx, cfg); err != nil {
			return err
		}
	}

	observer := provisioning.NewLogObserver(provisioning.NewConsoleLogger(verbosity(opts.Verbose)))
	metrics := provisioning.NewMetrics()
	orch := newOrchestrator(newPodClient(key, timeouts.HTTPRequest),
		provisioning.WithObserver(observer),
		provisioning.WithMetrics(metrics),
	)

	log.Printf("Deploying pod %s (%s on %dx %s)", req.Name(), req.Image(), req.AcceleratorCount(), req.AcceleratorType())
	outcome := orch.Deploy(ctx, req, awaitOpts)
	summary := provisioning.Report(outcome, req.HTTPPort())

	if outcome.IsReady() && opts.HealthCheck && summary.ProxyURL != "" {
		summary = probeService(ctx, summary, timeouts)
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			log.Printf("Warning: failed to write metrics file: %v", err)
		}
	}

	if err := printSummary(out, summary, opts.JSONOutput); err != nil {
		return err
	}

	if !outcome.IsReady() {
		if outcome.Err != nil {
			return fmt.Errorf("deployment failed: %w", withCredentialHint(outcome.Err))
		}
		return fmt.Errorf("deployment failed: %s", outcome.Reason)
	}
	return nil
}

// loadDeployment reads the deployment file and fills values that only come
// from the environment or from referenced files.
func loadDeployment(path string) (*config.Deployment, error) {
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvironment(cfg)
	if err := config.ResolvePublicKey(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTimingFlags lets explicit flags win over environment values.
func applyTimingFlags(t *config.Timeouts, opts DeployOptions) {
	if opts.Timeout > 0 {
		t.Ready = opts.Timeout
	}
	if opts.PollInterval > 0 {
		t.PollInterval = opts.PollInterval
	}
	if opts.MinStableUptime != nil {
		t.MinStableUptime = *opts.MinStableUptime
	}
}

// preflightBucket fails early when the service's output bucket is missing,
// before any billed resource exists.
func preflightBucket(ctx context.Context, cfg *config.Deployment) error {
	checker, err := newBucketChecker(ctx, s3.Options{
		Region:          cfg.Service.AWSRegion,
		AccessKeyID:     cfg.Service.AccessKeyID,
		SecretAccessKey: cfg.Service.SecretAccessKey,
		Endpoint:        cfg.Service.S3Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := checker.BucketExists(ctx, cfg.Service.S3Bucket)
	if err != nil {
		return fmt.Errorf("output bucket preflight failed: %w", err)
	}
	if !exists {
		return &provisioning.ConfigError{
			Field:  "service.s3_bucket",
			Reason: fmt.Sprintf("bucket %q does not exist", cfg.Service.S3Bucket),
		}
	}
	return nil
}

// probeService waits for the service behind the proxy to report healthy.
// A failing probe only adds a warning: the pod itself is running.
func probeService(ctx context.Context, summary provisioning.Summary, t *config.Timeouts) provisioning.Summary {
	probeCtx, cancel := context.WithTimeout(ctx, t.HealthCheck)
	defer cancel()

	log.Printf("Waiting for service health at %s%s", summary.ProxyURL, provisioning.HealthPath)
	hc := &http.Client{Timeout: t.HTTPRequest}
	health, err := checkServiceHealth(probeCtx, hc, summary.ProxyURL,
		retry.WithMaxRetries(t.RetryMaxAttempts),
		retry.WithInitialDelay(t.RetryInitialDelay),
		retry.WithMaxDelay(time.Minute),
		retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			log.Printf("Service not healthy yet (attempt %d): %v; retrying in %s", attempt, err, next)
		}),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return summary.WithWarning("health check cancelled")
		}
		return summary.WithWarning(err.Error())
	}
	if health.Model != "" {
		log.Printf("Service healthy, serving %s", health.Model)
	}
	return summary
}

// printSummary writes the summary as JSON or as formatted text.
func printSummary(out io.Writer, summary provisioning.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	_, err := fmt.Fprint(out, renderSummary(summary, isInteractiveTTY()))
	return err
}
