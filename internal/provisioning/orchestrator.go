package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/platform/runpod"
)

// Default wait parameters.
const (
	DefaultReadyTimeout    = 15 * time.Minute
	DefaultPollInterval    = 15 * time.Second
	DefaultMinStableUptime = 30 * time.Second
)

// AwaitOptions bounds the readiness wait.
type AwaitOptions struct {
	Timeout         time.Duration
	PollInterval    time.Duration
	MinStableUptime time.Duration
}

// DefaultAwaitOptions returns the built-in wait parameters.
func DefaultAwaitOptions() AwaitOptions {
	return AwaitOptions{
		Timeout:         DefaultReadyTimeout,
		PollInterval:    DefaultPollInterval,
		MinStableUptime: DefaultMinStableUptime,
	}
}

// AwaitOptionsFromTimeouts takes the wait parameters from loaded timing configuration.
func AwaitOptionsFromTimeouts(t *config.Timeouts) AwaitOptions {
	if t == nil {
		return DefaultAwaitOptions()
	}
	return AwaitOptions{
		Timeout:         t.Ready,
		PollInterval:    t.PollInterval,
		MinStableUptime: t.MinStableUptime,
	}
}

// Validate checks that the wait parameters can terminate.
func (o AwaitOptions) Validate() error {
	if o.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Reason: "must be positive"}
	}
	if o.PollInterval <= 0 {
		return &ConfigError{Field: "poll_interval", Reason: "must be positive"}
	}
	if o.MinStableUptime < 0 {
		return &ConfigError{Field: "min_stable_uptime", Reason: "must not be negative"}
	}
	return nil
}

// Orchestrator drives one pod from deploy request to a final outcome.
// Orchestrators share nothing but the PodClient, so several may run concurrently.
type Orchestrator struct {
	client   runpod.PodClient
	clock    Clock
	observer Observer
	metrics  *Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock (useful for testing).
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithObserver sets the observer that receives provisioning events.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithMetrics enables metric recording.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates an orchestrator around a provider client.
func NewOrchestrator(client runpod.PodClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		clock:    realClock{},
		observer: NewNoopObserver(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Create submits a single deploy request. It does not retry: a repeated
// deploy could allocate a second billed pod.
func (o *Orchestrator) Create(ctx context.Context, req ProvisionRequest) (PodHandle, error) {
	o.observer.Event(Event{
		Type:     EventPodCreating,
		Phase:    PhaseCreate,
		Resource: req.Name(),
		Message:  fmt.Sprintf("deploying %s on %dx %s", req.Image(), req.AcceleratorCount(), req.AcceleratorType()),
	})

	start := o.clock.Now()
	pod, err := o.client.CreatePod(ctx, req.CreateInput())
	o.metrics.recordAPICall("create_pod", err, o.clock.Now().Sub(start))
	if err != nil {
		return "", &CreationError{Cause: err}
	}
	if pod == nil || pod.ID == "" {
		return "", &CreationError{Cause: runpod.ErrEmptyResponse}
	}

	handle := PodHandle(pod.ID)
	o.observer.Event(Event{
		Type:     EventPodCreated,
		Phase:    PhaseCreate,
		Resource: req.Name(),
		Message:  "pod created",
		Fields:   map[string]string{"id": handle.String()},
	})
	return handle, nil
}

// AwaitReady polls the pod until it is ready, reaches a terminal phase,
// the timeout elapses, or ctx ends. The first poll is immediate. The
// deadline is measured from the call, and the last wait is clipped to it,
// so a timeout is reported between opts.Timeout and
// opts.Timeout+opts.PollInterval after the call. The pod is never torn down.
func (o *Orchestrator) AwaitReady(ctx context.Context, handle PodHandle, opts AwaitOptions) DeploymentOutcome {
	if err := opts.Validate(); err != nil {
		return failedOutcome(handle, err.Error(), err, nil, 0, 0)
	}

	obs := o.observer.WithFields(map[string]string{"pod": handle.String()})
	start := o.clock.Now()
	deadline := start.Add(opts.Timeout)

	var last *PodStatus
	polls := 0
	elapsed := func() time.Duration { return o.clock.Now().Sub(start) }
	cancelled := func() DeploymentOutcome {
		return failedOutcome(handle, ReasonCancelled, ErrCancelled, last, polls, elapsed())
	}

	LogPhaseStart(obs, PhaseAwait)
	for {
		if ctx.Err() != nil {
			return cancelled()
		}

		polls++
		callStart := o.clock.Now()
		pollCtx, cancelPoll := o.clock.WithTimeout(ctx, pollBudget(callStart, deadline, opts.PollInterval))
		pod, err := o.client.GetPod(pollCtx, handle.String())
		pollExpired := pollCtx.Err() != nil
		cancelPoll()
		o.metrics.recordAPICall("get_pod", err, o.clock.Now().Sub(callStart))

		switch {
		case err != nil && ctx.Err() != nil:
			return cancelled()

		case err != nil && pollExpired:
			o.metrics.recordPoll("error")
			obs.Warn("status check timed out, will retry", &TransientPollError{Handle: handle, Err: err})

		case err != nil && !runpod.IsTransient(err):
			o.metrics.recordPoll("error")
			checkErr := &StatusCheckError{Handle: handle, Err: err}
			LogPhaseFailed(obs, PhaseAwait, checkErr)
			return failedOutcome(handle, "status check failed: "+err.Error(), checkErr, last, polls, elapsed())

		case err != nil:
			o.metrics.recordPoll("error")
			obs.Warn("status check failed, will retry", &TransientPollError{Handle: handle, Err: err})

		case pod == nil:
			o.metrics.recordPoll("not_visible")
			obs.Warn("pod not visible yet, will retry", nil)

		default:
			status := StatusFromPod(pod)
			last = &status
			o.metrics.recordPoll(string(status.Phase))
			obs.Event(Event{
				Type:     EventPodPolled,
				Phase:    PhaseAwait,
				Resource: handle.String(),
				Message:  status.String(),
				Fields:   map[string]string{"poll": fmt.Sprint(polls)},
			})

			switch Evaluate(status, opts.MinStableUptime) {
			case DecisionReady:
				out := readyOutcome(handle, status, polls, elapsed())
				obs.Event(Event{
					Type:     EventPodReady,
					Phase:    PhaseAwait,
					Resource: handle.String(),
					Message:  "pod is ready",
				})
				LogPhaseComplete(obs, PhaseAwait, out.Elapsed)
				return out
			case DecisionTerminal:
				termErr := &TerminalStatusError{Handle: handle, Status: status}
				LogPhaseFailed(obs, PhaseAwait, termErr)
				return failedOutcome(handle, "terminal status "+string(status.Phase), termErr, last, polls, elapsed())
			}
		}

		now := o.clock.Now()
		if !now.Before(deadline) {
			timeoutErr := &TimeoutError{Handle: handle, Elapsed: now.Sub(start), LastStatus: last}
			LogPhaseFailed(obs, PhaseAwait, timeoutErr)
			return failedOutcome(handle, ReasonTimeout, timeoutErr, last, polls, now.Sub(start))
		}

		wait := min(opts.PollInterval, deadline.Sub(now))
		if err := o.clock.Sleep(ctx, wait); err != nil {
			return cancelled()
		}
	}
}

// pollBudget bounds one status call. A call started before the deadline gets
// at most one interval; the call at the deadline gets half of one, so a
// hanging provider still yields a timeout inside the reporting window.
func pollBudget(now, deadline time.Time, interval time.Duration) time.Duration {
	return min(interval, deadline.Sub(now)+interval/2)
}

// Deploy creates a pod and waits for it to become ready.
func (o *Orchestrator) Deploy(ctx context.Context, req ProvisionRequest, opts AwaitOptions) DeploymentOutcome {
	out := o.deploy(ctx, req, opts)
	o.metrics.recordDeploy(out)
	return out
}

func (o *Orchestrator) deploy(ctx context.Context, req ProvisionRequest, opts AwaitOptions) DeploymentOutcome {
	if err := opts.Validate(); err != nil {
		return failedOutcome("", err.Error(), err, nil, 0, 0)
	}

	LogPhaseStart(o.observer, PhaseCreate)
	start := o.clock.Now()
	handle, err := o.Create(ctx, req)
	if err != nil {
		LogPhaseFailed(o.observer, PhaseCreate, err)
		if ctx.Err() != nil {
			return failedOutcome("", ReasonCancelled, fmt.Errorf("%w: %w", ErrCancelled, err), nil, 0, o.clock.Now().Sub(start))
		}
		reason := "creation failed: " + err.Error()
		var createErr *CreationError
		if errors.As(err, &createErr) {
			reason = "creation failed: " + createErr.Cause.Error()
		}
		return failedOutcome("", reason, err, nil, 0, o.clock.Now().Sub(start))
	}
	LogPhaseComplete(o.observer, PhaseCreate, o.clock.Now().Sub(start))

	out := o.AwaitReady(ctx, handle, opts)
	if out.IsReady() && req.HTTPPort() > 0 {
		out.ProxyURL = ProxyURL(handle, req.HTTPPort())
	}
	return out
}

// Status fetches and classifies the current state of a pod once.
func (o *Orchestrator) Status(ctx context.Context, handle PodHandle) (PodStatus, error) {
	start := o.clock.Now()
	pod, err := o.client.GetPod(ctx, handle.String())
	o.metrics.recordAPICall("get_pod", err, o.clock.Now().Sub(start))
	if err != nil {
		return PodStatus{}, fmt.Errorf("failed to get pod %s: %w", handle, err)
	}
	if pod == nil {
		return PodStatus{}, fmt.Errorf("%w: %s", ErrPodNotFound, handle)
	}
	return StatusFromPod(pod), nil
}
