package provisioning

import (
	"fmt"

	"github.com/imamik/imagepod/internal/util/naming"
)

// Summary is the caller-facing view of a DeploymentOutcome.
type Summary struct {
	Ready     bool   `json:"ready"`
	PodID     string `json:"pod_id,omitempty"`
	ProxyURL  string `json:"proxy_url,omitempty"`
	SSHTarget string `json:"ssh,omitempty"`
	Machine   string `json:"machine,omitempty"`

	Reason      string `json:"reason,omitempty"`
	LastPhase   string `json:"last_phase,omitempty"`
	CleanupHint string `json:"cleanup_hint,omitempty"`

	Polls          int      `json:"polls"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ProxyURL is the public URL the provider routes to an HTTP port of a pod.
func ProxyURL(handle PodHandle, port int) string {
	return fmt.Sprintf("http://%s/", naming.ProxyHost(handle.String(), port))
}

// Report summarizes an outcome. port is the HTTP service port; 0 keeps the
// proxy URL recorded on the outcome, if any.
// Report is pure and returns equal summaries for equal inputs.
func Report(outcome DeploymentOutcome, port int) Summary {
	s := Summary{
		Ready:          outcome.IsReady(),
		PodID:          outcome.Handle.String(),
		Polls:          outcome.Polls,
		ElapsedSeconds: outcome.Elapsed.Seconds(),
	}
	if outcome.LastStatus != nil {
		s.LastPhase = string(outcome.LastStatus.Phase)
	}

	if outcome.IsReady() {
		s.ProxyURL = outcome.ProxyURL
		if port > 0 {
			s.ProxyURL = ProxyURL(outcome.Handle, port)
		}
		s.SSHTarget = outcome.SSHTarget
		s.Machine = outcome.Machine
		return s
	}

	s.Reason = outcome.Reason
	if outcome.Handle != "" {
		s.CleanupHint = fmt.Sprintf("pod %s may still be running and billing; terminate it in the RunPod console or with: runpodctl remove pod %s", outcome.Handle, outcome.Handle)
	}
	return s
}

// WithWarning returns a copy of s with an additional warning.
func (s Summary) WithWarning(warning string) Summary {
	s.Warnings = append(append([]string(nil), s.Warnings...), warning)
	return s
}
