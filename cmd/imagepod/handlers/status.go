package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/provisioning"
	"github.com/imamik/imagepod/internal/util/naming"
	"github.com/imamik/imagepod/internal/util/ptr"
)

// PodStatusView is the status command's JSON output.
type PodStatusView struct {
	PodID         string   `json:"pod_id"`
	Phase         string   `json:"phase"`
	RawStatus     string   `json:"raw_status,omitempty"`
	UptimeSeconds *float64 `json:"uptime_seconds,omitempty"`
	Accelerators  *int     `json:"accelerators,omitempty"`
	Machine       string   `json:"machine,omitempty"`
	SSHTarget     string   `json:"ssh,omitempty"`
	ProxyURL      string   `json:"proxy_url,omitempty"`
	Ready         bool     `json:"ready"`
}

// Status fetches one status snapshot of an existing pod.
// port selects the HTTP port used for the proxy URL; 0 omits it.
func Status(ctx context.Context, podID string, port int, jsonOutput bool) error {
	return status(ctx, os.Stdout, podID, port, jsonOutput)
}

func status(ctx context.Context, out io.Writer, podID string, port int, jsonOutput bool) error {
	key, err := apiKey()
	if err != nil {
		return err
	}

	timeouts := config.LoadTimeouts()
	orch := newOrchestrator(newPodClient(key, timeouts.HTTPRequest))

	handle := provisioning.PodHandle(podID)
	st, err := orch.Status(ctx, handle)
	if err != nil {
		return withCredentialHint(err)
	}

	view := newPodStatusView(handle, st, port, timeouts.MinStableUptime)
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Fprintf(out, "Pod %s: %s\n", view.PodID, st)
	if view.Machine != "" {
		fmt.Fprintf(out, "  GPU: %s\n", view.Machine)
	}
	if view.ProxyURL != "" {
		fmt.Fprintf(out, "  URL: %s\n", view.ProxyURL)
	}
	if view.SSHTarget != "" {
		fmt.Fprintf(out, "  SSH: %s\n", sshCommand(view.SSHTarget))
	}
	return nil
}

func newPodStatusView(handle provisioning.PodHandle, st provisioning.PodStatus, port int, minStable time.Duration) PodStatusView {
	view := PodStatusView{
		PodID:        handle.String(),
		Phase:        string(st.Phase),
		RawStatus:    st.Raw,
		Accelerators: st.Accelerators,
		Machine:      st.Machine,
		Ready:        provisioning.Evaluate(st, minStable) == provisioning.DecisionReady,
	}
	if st.Uptime != nil {
		view.UptimeSeconds = ptr.To(st.Uptime.Seconds())
	}
	if st.PodHostID != "" {
		view.SSHTarget = naming.SSHTarget(st.PodHostID)
	}
	if st.Phase == provisioning.PhaseRunning && port > 0 {
		view.ProxyURL = provisioning.ProxyURL(handle, port)
	}
	return view
}
