package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/imamik/imagepod/internal/util/retry"
)

// HealthPath is the service's health endpoint relative to its base URL.
const HealthPath = "health"

// HealthyStatus is the status value a healthy service reports.
const HealthyStatus = "healthy"

// healthResponse mirrors the service's /health body.
type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// ServiceHealth is what a healthy service reported.
type ServiceHealth struct {
	Model string
}

// CheckServiceHealth probes {baseURL}health until the service reports
// healthy, retrying with exponential backoff. The proxy answers with
// 502/404 while the container is still starting, so any non-healthy
// response is retried.
func CheckServiceHealth(ctx context.Context, hc *http.Client, baseURL string, opts ...retry.Option) (ServiceHealth, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	url := strings.TrimSuffix(baseURL, "/") + "/" + HealthPath

	var health ServiceHealth
	err := retry.WithExponentialBackoff(ctx, func() error {
		h, err := probeHealth(ctx, hc, url)
		if err != nil {
			return err
		}
		health = h
		return nil
	}, opts...)
	if err != nil {
		return ServiceHealth{}, fmt.Errorf("service at %s is not healthy: %w", url, err)
	}
	return health, nil
}

func probeHealth(ctx context.Context, hc *http.Client, url string) (ServiceHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ServiceHealth{}, retry.Fatal(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ServiceHealth{}, retry.Fatal(err)
		}
		return ServiceHealth{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ServiceHealth{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return ServiceHealth{}, fmt.Errorf("health endpoint returned HTTP %d", resp.StatusCode)
	}

	var hr healthResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return ServiceHealth{}, fmt.Errorf("failed to decode health response: %w", err)
	}
	if hr.Status != HealthyStatus {
		return ServiceHealth{}, fmt.Errorf("service reported status %q", hr.Status)
	}
	return ServiceHealth{Model: hr.Model}, nil
}
