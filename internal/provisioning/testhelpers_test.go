package provisioning

import (
	"context"
	"sync"
	"time"

	"github.com/imamik/imagepod/internal/platform/runpod"
)

// fakeClock advances only when Sleep or Advance is called.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	sleeps   []time.Duration
	timeouts []time.Duration

	// onSleep runs before time advances; returning an error aborts the sleep.
	onSleep func(d time.Duration) error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.onSleep != nil {
		if err := c.onSleep(d); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// fakeDeadlineKey carries the fake-clock deadline set by WithTimeout.
type fakeDeadlineKey struct{}

func (c *fakeClock) WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	deadline := c.Now().Add(d)
	c.mu.Lock()
	c.timeouts = append(c.timeouts, d)
	c.mu.Unlock()
	ctx, cancel := context.WithCancel(ctx)
	return context.WithValue(ctx, fakeDeadlineKey{}, deadline), cancel
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Timeouts() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.timeouts...)
}

// hangingClient blocks every GetPod for hang of fake time, or until the
// call's fake deadline, and then fails the way an expired request does.
func hangingClient(clock *fakeClock, hang time.Duration) (*runpod.MockClient, *int) {
	calls := 0
	client := &runpod.MockClient{
		GetPodFunc: func(ctx context.Context, _ string) (*runpod.Pod, error) {
			calls++
			wait := hang
			if deadline, ok := ctx.Value(fakeDeadlineKey{}).(time.Time); ok {
				wait = min(wait, deadline.Sub(clock.Now()))
			}
			clock.Advance(wait)
			return nil, context.DeadlineExceeded
		},
	}
	return client, &calls
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// pollResult is one scripted GetPod response.
type pollResult struct {
	pod *runpod.Pod
	err error
}

// scriptedClient replays GetPod responses in order and repeats the last one.
func scriptedClient(results ...pollResult) (*runpod.MockClient, *int) {
	calls := 0
	client := &runpod.MockClient{
		GetPodFunc: func(_ context.Context, _ string) (*runpod.Pod, error) {
			i := min(calls, len(results)-1)
			calls++
			return results[i].pod, results[i].err
		},
	}
	return client, &calls
}

func podIn(status string) pollResult {
	return pollResult{pod: &runpod.Pod{ID: "pod-1", DesiredStatus: status}}
}

func podRunning(uptimeSeconds int) pollResult {
	return pollResult{pod: &runpod.Pod{
		ID:            "pod-1",
		DesiredStatus: "RUNNING",
		GPUCount:      1,
		Machine:       &runpod.Machine{PodHostID: "pod-1-64410f25", GPUDisplayName: "RTX 4090"},
		Runtime:       &runpod.Runtime{UptimeInSeconds: uptimeSeconds},
	}}
}

func pollErr(err error) pollResult {
	return pollResult{err: err}
}

// recordingObserver keeps every event and warning.
type recordingObserver struct {
	mu       sync.Mutex
	events   []Event
	warnings []string
}

func (r *recordingObserver) Event(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) Warn(message string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, message)
}

func (r *recordingObserver) WithFields(_ map[string]string) Observer {
	return r
}

func (r *recordingObserver) eventTypes() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

var testAwaitOptions = AwaitOptions{
	Timeout:         10 * time.Minute,
	PollInterval:    15 * time.Second,
	MinStableUptime: 30 * time.Second,
}
