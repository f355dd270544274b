package provisioning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/imagepod/internal/platform/runpod"
)

func TestParsePhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Phase
	}{
		{"CREATED", PhasePending},
		{"RESTARTING", PhasePending},
		{"RUNNING", PhaseRunning},
		{"running", PhaseRunning},
		{"EXITED", PhaseStopped},
		{"TERMINATED", PhaseStopped},
		{"DEAD", PhaseFailed},
		{"FAILED", PhaseFailed},
		{"", PhaseUnknown},
		{"MIGRATING", PhaseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParsePhase(tt.raw))
		})
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, PhaseFailed.IsTerminal())
	assert.True(t, PhaseStopped.IsTerminal())
	assert.False(t, PhasePending.IsTerminal())
	assert.False(t, PhaseRunning.IsTerminal())
	assert.False(t, PhaseUnknown.IsTerminal())
}

func TestStatusFromPod(t *testing.T) {
	t.Parallel()

	t.Run("without runtime", func(t *testing.T) {
		t.Parallel()
		s := StatusFromPod(&runpod.Pod{ID: "p", DesiredStatus: "RUNNING", GPUCount: 1})
		assert.Equal(t, PhaseRunning, s.Phase)
		assert.Nil(t, s.Uptime)
		assert.Nil(t, s.Accelerators)
		assert.Empty(t, s.PodHostID)
	})

	t.Run("with runtime and machine", func(t *testing.T) {
		t.Parallel()
		s := StatusFromPod(&runpod.Pod{
			ID:            "p",
			DesiredStatus: "RUNNING",
			GPUCount:      2,
			Machine:       &runpod.Machine{PodHostID: "p-64410f25", GPUDisplayName: "RTX 4090"},
			Runtime: &runpod.Runtime{
				UptimeInSeconds: 45,
				GPUs:            []runpod.GPU{{ID: "g0"}, {ID: "g1"}},
			},
		})
		require.NotNil(t, s.Uptime)
		assert.Equal(t, 45*time.Second, *s.Uptime)
		require.NotNil(t, s.Accelerators)
		assert.Equal(t, 2, *s.Accelerators)
		assert.Equal(t, "RTX 4090", s.Machine)
		assert.Equal(t, "p-64410f25", s.PodHostID)
	})

	t.Run("gpu count fallback", func(t *testing.T) {
		t.Parallel()
		s := StatusFromPod(&runpod.Pod{DesiredStatus: "RUNNING", GPUCount: 1, Runtime: &runpod.Runtime{}})
		require.NotNil(t, s.Accelerators)
		assert.Equal(t, 1, *s.Accelerators)
	})
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	uptime := func(d time.Duration) *time.Duration { return &d }
	minStable := 30 * time.Second

	tests := []struct {
		name   string
		status PodStatus
		want   Decision
	}{
		{"pending", PodStatus{Phase: PhasePending}, DecisionContinue},
		{"unknown", PodStatus{Phase: PhaseUnknown}, DecisionContinue},
		{"running without uptime", PodStatus{Phase: PhaseRunning}, DecisionContinue},
		{"running too young", PodStatus{Phase: PhaseRunning, Uptime: uptime(10 * time.Second)}, DecisionContinue},
		{"running at threshold", PodStatus{Phase: PhaseRunning, Uptime: uptime(30 * time.Second)}, DecisionReady},
		{"running stable", PodStatus{Phase: PhaseRunning, Uptime: uptime(time.Hour)}, DecisionReady},
		{"failed", PodStatus{Phase: PhaseFailed}, DecisionTerminal},
		{"stopped", PodStatus{Phase: PhaseStopped, Uptime: uptime(time.Hour)}, DecisionTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Evaluate(tt.status, minStable))
		})
	}
}

func TestEvaluate_ZeroMinStableUptime(t *testing.T) {
	t.Parallel()

	zero := time.Duration(0)
	assert.Equal(t, DecisionReady, Evaluate(PodStatus{Phase: PhaseRunning, Uptime: &zero}, 0))
}

func TestPodStatus_String(t *testing.T) {
	t.Parallel()

	d := 90 * time.Second
	assert.Equal(t, "PENDING", PodStatus{Phase: PhasePending}.String())
	assert.Equal(t, "RUNNING (uptime 1m30s)", PodStatus{Phase: PhaseRunning, Uptime: &d}.String())
}
