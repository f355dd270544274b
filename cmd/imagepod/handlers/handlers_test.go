package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/imamik/imagepod/internal/platform/runpod"
	"github.com/imamik/imagepod/internal/platform/s3"
	"github.com/imamik/imagepod/internal/provisioning"
	"github.com/imamik/imagepod/internal/util/retry"
)

// instantClock advances without blocking.
type instantClock struct {
	now time.Time
}

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func (c *instantClock) WithTimeout(ctx context.Context, _ time.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

// fakeBucketChecker implements s3.BucketChecker.
type fakeBucketChecker struct {
	exists  bool
	err     error
	checked []string
}

func (f *fakeBucketChecker) BucketExists(_ context.Context, name string) (bool, error) {
	f.checked = append(f.checked, name)
	return f.exists, f.err
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origNewPodClient := newPodClient
	origNewBucketChecker := newBucketChecker
	origNewOrchestrator := newOrchestrator
	origCheckServiceHealth := checkServiceHealth
	origLoadConfigFile := loadConfigFile
	origWriteFile := writeFile

	t.Cleanup(func() {
		newPodClient = origNewPodClient
		newBucketChecker = origNewBucketChecker
		newOrchestrator = origNewOrchestrator
		checkServiceHealth = origCheckServiceHealth
		loadConfigFile = origLoadConfigFile
		writeFile = origWriteFile
	})
}

// useFakes installs a pod client, an instant clock and a bucket checker.
func useFakes(t *testing.T, client *runpod.MockClient, bucket *fakeBucketChecker) {
	t.Helper()
	saveAndRestoreFactories(t)

	t.Setenv(apiKeyEnv, "test-key")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_REGION", "")

	newPodClient = func(apiKey string, _ time.Duration) runpod.PodClient {
		if apiKey != "test-key" {
			t.Errorf("unexpected api key %q", apiKey)
		}
		return client
	}
	newOrchestrator = func(c runpod.PodClient, opts ...provisioning.Option) *provisioning.Orchestrator {
		clock := &instantClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		return provisioning.NewOrchestrator(c, append(opts, provisioning.WithClock(clock))...)
	}
	newBucketChecker = func(context.Context, s3.Options) (s3.BucketChecker, error) {
		if bucket == nil {
			t.Error("bucket preflight must not run")
			return &fakeBucketChecker{exists: true}, nil
		}
		return bucket, nil
	}
	checkServiceHealth = func(context.Context, *http.Client, string, ...retry.Option) (provisioning.ServiceHealth, error) {
		t.Error("health check must not run")
		return provisioning.ServiceHealth{}, nil
	}
}
