package runpod

import "context"

// PodClient is the provider capability pod provisioning depends on.
// Implementations must be safe for concurrent use.
type PodClient interface {
	// CreatePod deploys an on-demand pod and returns it as first reported.
	CreatePod(ctx context.Context, input CreatePodInput) (*Pod, error)

	// GetPod returns the pod, or (nil, nil) if it is not visible yet.
	GetPod(ctx context.Context, podID string) (*Pod, error)
}
