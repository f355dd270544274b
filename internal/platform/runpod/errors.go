package runpod

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Transient response failures.
var (
	ErrEmptyResponse     = errors.New("empty response from RunPod API")
	ErrMalformedResponse = errors.New("malformed response from RunPod API")
)

// APIError is a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("RunPod API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("RunPod API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// GraphQLError carries the messages of a GraphQL errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "RunPod API error: " + strings.Join(e.Messages, "; ")
}

// IsTransient reports whether err is worth retrying on a later attempt.
// Cancellation of the caller's context is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrMalformedResponse) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusRequestTimeout ||
			apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}

	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsUnauthorized reports whether the API rejected the credentials.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
