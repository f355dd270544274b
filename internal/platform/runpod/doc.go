// Package runpod provides a client for the RunPod GraphQL API.
//
// Only the two calls pod provisioning needs are wrapped: deploying an
// on-demand pod and reading a pod back. [PodClient] is the seam the
// provisioning package depends on; [RealClient] implements it over HTTP and
// [MockClient] implements it for tests.
//
// # Error classification
//
// Errors returned by [RealClient] are classified by [IsTransient]:
//
//   - network failures, per-request timeouts, HTTP 408/429/5xx and responses
//     without data are transient and safe to retry on the next poll
//   - other HTTP 4xx responses and GraphQL errors are permanent
//
// A pod that the API does not return yet is reported as (nil, nil), not as
// an error, because freshly deployed pods can take a moment to become visible.
package runpod
