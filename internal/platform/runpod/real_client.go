package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultEndpoint is the public RunPod GraphQL endpoint.
const DefaultEndpoint = "https://api.runpod.io/graphql"

// maxErrorBody bounds how much of an error response ends up in APIError.
const maxErrorBody = 512

const podFields = `
	id
	name
	imageName
	desiredStatus
	gpuCount
	machineId
	machine { podHostId gpuDisplayName }
	runtime {
		uptimeInSeconds
		ports { ip isIpPublic privatePort publicPort type }
		gpus { id gpuUtilPercent memoryUtilPercent }
	}`

const createPodMutation = `mutation CreatePod($input: PodFindAndDeployOnDemandInput) {
	podFindAndDeployOnDemand(input: $input) {` + podFields + `
	}
}`

const getPodQuery = `query Pod($input: PodFilter) {
	pod(input: $input) {` + podFields + `
	}
}`

// RealClient implements PodClient using the RunPod GraphQL API.
type RealClient struct {
	apiKey         string
	endpoint       string
	httpClient     *http.Client
	requestTimeout time.Duration
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithEndpoint overrides the GraphQL endpoint (useful for testing).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *RealClient) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithRequestTimeout bounds every single API call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *RealClient) {
		c.requestTimeout = d
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(apiKey string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		apiKey:         apiKey,
		endpoint:       DefaultEndpoint,
		httpClient:     http.DefaultClient,
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePod deploys an on-demand pod.
func (c *RealClient) CreatePod(ctx context.Context, input CreatePodInput) (*Pod, error) {
	var data struct {
		Pod *Pod `json:"podFindAndDeployOnDemand"`
	}
	if err := c.do(ctx, createPodMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if data.Pod == nil {
		return nil, fmt.Errorf("%w: no pod in create response", ErrEmptyResponse)
	}
	return data.Pod, nil
}

// GetPod returns the pod with the given id, or nil if it is not visible yet.
func (c *RealClient) GetPod(ctx context.Context, podID string) (*Pod, error) {
	var data struct {
		Pod *Pod `json:"pod"`
	}
	vars := map[string]any{"input": map[string]string{"podId": podID}}
	if err := c.do(ctx, getPodQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.Pod, nil
}

// do posts a GraphQL request and decodes its data member into out.
func (c *RealClient) do(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("RunPod API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if err == io.EOF {
			return ErrEmptyResponse
		}
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(envelope.Errors) > 0 {
		return &GraphQLError{Messages: lo.Map(envelope.Errors, func(e graphQLError, _ int) string { return e.Message })}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
