package provisioning

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/imagepod/internal/platform/runpod"
	"github.com/imamik/imagepod/internal/util/ptr"
)

// PodHandle is the provider-assigned pod identifier.
type PodHandle string

func (h PodHandle) String() string { return string(h) }

// Phase is the normalized lifecycle phase of a pod.
type Phase string

// Phases.
const (
	PhasePending Phase = "PENDING"
	PhaseRunning Phase = "RUNNING"
	PhaseFailed  Phase = "FAILED"
	PhaseStopped Phase = "STOPPED"
	PhaseUnknown Phase = "UNKNOWN"
)

// IsTerminal reports whether a pod in this phase will not recover on its own.
func (p Phase) IsTerminal() bool {
	return p == PhaseFailed || p == PhaseStopped
}

// ParsePhase maps a provider desiredStatus onto a Phase.
func ParsePhase(status string) Phase {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CREATED", "PENDING", "RESTARTING", "STARTING":
		return PhasePending
	case "RUNNING":
		return PhaseRunning
	case "EXITED", "PAUSED", "STOPPED", "TERMINATED":
		return PhaseStopped
	case "DEAD", "FAILED", "ERROR":
		return PhaseFailed
	default:
		return PhaseUnknown
	}
}

// PodStatus is a single polled snapshot of a pod.
type PodStatus struct {
	Phase Phase
	// Raw is the provider status string the phase was derived from.
	Raw string

	// Optional fields are nil when the provider did not report them.
	Uptime       *time.Duration
	Accelerators *int
	Machine      string
	PodHostID    string
}

// StatusFromPod builds a snapshot from a provider pod.
// Uptime and allocated accelerators are only known once the container runtime is up.
func StatusFromPod(pod *runpod.Pod) PodStatus {
	s := PodStatus{
		Phase: ParsePhase(pod.DesiredStatus),
		Raw:   pod.DesiredStatus,
	}
	if pod.Machine != nil {
		s.Machine = pod.Machine.GPUDisplayName
		s.PodHostID = pod.Machine.PodHostID
	}
	if pod.Runtime != nil {
		s.Uptime = ptr.To(time.Duration(pod.Runtime.UptimeInSeconds) * time.Second)
		switch {
		case len(pod.Runtime.GPUs) > 0:
			s.Accelerators = ptr.To(len(pod.Runtime.GPUs))
		case pod.GPUCount > 0:
			s.Accelerators = ptr.To(pod.GPUCount)
		}
	}
	return s
}

func (s PodStatus) String() string {
	if s.Uptime != nil {
		return fmt.Sprintf("%s (uptime %s)", s.Phase, s.Uptime.Round(time.Second))
	}
	return string(s.Phase)
}

// Decision is the result of evaluating one snapshot.
type Decision int

// Decisions.
const (
	// DecisionContinue keeps polling.
	DecisionContinue Decision = iota
	// DecisionReady declares the pod ready.
	DecisionReady
	// DecisionTerminal stops polling with a failure.
	DecisionTerminal
)

func (d Decision) String() string {
	switch d {
	case DecisionReady:
		return "ready"
	case DecisionTerminal:
		return "terminal"
	default:
		return "continue"
	}
}

// Evaluate is the readiness transition function. A RUNNING pod only counts
// as ready once it has reported at least minStableUptime of uptime; the
// provider flips to RUNNING before the service inside has opened its port.
func Evaluate(s PodStatus, minStableUptime time.Duration) Decision {
	switch {
	case s.Phase.IsTerminal():
		return DecisionTerminal
	case s.Phase == PhaseRunning && s.Uptime != nil && *s.Uptime >= minStableUptime:
		return DecisionReady
	default:
		return DecisionContinue
	}
}
