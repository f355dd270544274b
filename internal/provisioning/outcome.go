package provisioning

import (
	"time"

	"github.com/imamik/imagepod/internal/util/naming"
)

// OutcomeKind tags a DeploymentOutcome.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeReady  OutcomeKind = "ready"
	OutcomeFailed OutcomeKind = "failed"
)

// Failure reasons that callers may match on.
const (
	ReasonTimeout   = "timeout"
	ReasonCancelled = "cancelled"
)

// DeploymentOutcome is the final result of one orchestration run.
// Values are created once when the run ends and are not modified afterwards.
type DeploymentOutcome struct {
	Kind   OutcomeKind
	Handle PodHandle

	// Ready fields. ProxyURL is only set by Deploy, which knows the service port.
	ProxyURL  string
	SSHTarget string
	Machine   string

	// Failed fields.
	Reason string
	Err    error

	// LastStatus is the most recent snapshot, if any poll succeeded.
	LastStatus *PodStatus
	Polls      int
	Elapsed    time.Duration
}

// IsReady reports whether the pod was confirmed ready.
func (o DeploymentOutcome) IsReady() bool {
	return o.Kind == OutcomeReady
}

func readyOutcome(handle PodHandle, status PodStatus, polls int, elapsed time.Duration) DeploymentOutcome {
	out := DeploymentOutcome{
		Kind:       OutcomeReady,
		Handle:     handle,
		Machine:    status.Machine,
		LastStatus: &status,
		Polls:      polls,
		Elapsed:    elapsed,
	}
	if status.PodHostID != "" {
		out.SSHTarget = naming.SSHTarget(status.PodHostID)
	}
	return out
}

func failedOutcome(handle PodHandle, reason string, err error, last *PodStatus, polls int, elapsed time.Duration) DeploymentOutcome {
	return DeploymentOutcome{
		Kind:       OutcomeFailed,
		Handle:     handle,
		Reason:     reason,
		Err:        err,
		LastStatus: last,
		Polls:      polls,
		Elapsed:    elapsed,
	}
}
