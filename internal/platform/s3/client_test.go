package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("boom"), false},
		{"typed NotFound", &types.NotFound{}, true},
		{"typed NoSuchBucket", fmt.Errorf("wrapped: %w", &types.NoSuchBucket{}), true},
		{"generic 404 code", &smithy.GenericAPIError{Code: "404"}, true},
		{"generic NoSuchBucket code", &smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), Options{
		Region:          "eu-central-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestBucketExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "generated-images":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	exists, err := client.BucketExists(context.Background(), "generated-images")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.BucketExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBucketExists_Forbidden(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.BucketExists(context.Background(), "locked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket locked")
}

func TestNewClient_DefaultRegion(t *testing.T) {
	client, err := NewClient(context.Background(), Options{AccessKeyID: "a", SecretAccessKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, client.s3.Options().Region)
	assert.Nil(t, client.s3.Options().BaseEndpoint)
}
