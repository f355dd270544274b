package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// ErrCancelled is reported when the caller's context ends while polling.
var ErrCancelled = errors.New("cancelled")

// ConfigError is a rejected deployment option. It is never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// CreationError is returned when the provider rejects or fails a deploy.
type CreationError struct {
	Cause error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("pod creation failed: %v", e.Cause)
}

func (e *CreationError) Unwrap() error {
	return e.Cause
}

// TransientPollError is a failed status check that will be retried on the next poll.
type TransientPollError struct {
	Handle PodHandle
	Err    error
}

func (e *TransientPollError) Error() string {
	return fmt.Sprintf("status check for pod %s failed: %v", e.Handle, e.Err)
}

func (e *TransientPollError) Unwrap() error {
	return e.Err
}

// StatusCheckError is a failed status check that retrying will not fix,
// such as rejected credentials.
type StatusCheckError struct {
	Handle PodHandle
	Err    error
}

func (e *StatusCheckError) Error() string {
	return fmt.Sprintf("status check for pod %s failed permanently: %v", e.Handle, e.Err)
}

func (e *StatusCheckError) Unwrap() error {
	return e.Err
}

// TerminalStatusError is returned when the pod reaches FAILED or STOPPED.
type TerminalStatusError struct {
	Handle PodHandle
	Status PodStatus
}

func (e *TerminalStatusError) Error() string {
	return fmt.Sprintf("pod %s reached terminal status %s", e.Handle, e.Status.Phase)
}

// TimeoutError is returned when readiness is not reached within the budget.
type TimeoutError struct {
	Handle     PodHandle
	Elapsed    time.Duration
	LastStatus *PodStatus
}

func (e *TimeoutError) Error() string {
	last := "none observed"
	if e.LastStatus != nil {
		last = e.LastStatus.String()
	}
	return fmt.Sprintf("pod %s not ready after %s (last status: %s)", e.Handle, e.Elapsed.Round(time.Second), last)
}

// ErrPodNotFound is returned by a one-shot status lookup for a pod the provider does not report.
var ErrPodNotFound = errors.New("pod not found")
