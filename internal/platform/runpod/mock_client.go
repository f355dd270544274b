package runpod

import "context"

// MockClient is a mock implementation of PodClient.
type MockClient struct {
	CreatePodFunc func(ctx context.Context, input CreatePodInput) (*Pod, error)
	GetPodFunc    func(ctx context.Context, podID string) (*Pod, error)
}

// CreatePod calls CreatePodFunc, or returns a pod with id "mock-pod".
func (m *MockClient) CreatePod(ctx context.Context, input CreatePodInput) (*Pod, error) {
	if m.CreatePodFunc != nil {
		return m.CreatePodFunc(ctx, input)
	}
	return &Pod{ID: "mock-pod", Name: input.Name, ImageName: input.ImageName, DesiredStatus: "CREATED"}, nil
}

// GetPod calls GetPodFunc, or returns a running pod with a long uptime.
func (m *MockClient) GetPod(ctx context.Context, podID string) (*Pod, error) {
	if m.GetPodFunc != nil {
		return m.GetPodFunc(ctx, podID)
	}
	return &Pod{
		ID:            podID,
		DesiredStatus: "RUNNING",
		GPUCount:      1,
		Machine:       &Machine{PodHostID: podID + "-mock", GPUDisplayName: "RTX 4090"},
		Runtime:       &Runtime{UptimeInSeconds: 3600},
	}, nil
}
