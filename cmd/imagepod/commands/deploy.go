package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/imagepod/cmd/imagepod/handlers"
)

// Deploy returns the command for creating a pod and waiting for it.
//
// Optional flags:
//
//	--config, -c: Path to deployment YAML file (default: imagepod.yaml)
//	--timeout: Readiness timeout (overrides IMAGEPOD_TIMEOUT_READY)
//	--poll-interval: Wait between status polls (overrides IMAGEPOD_POLL_INTERVAL)
//	--min-stable-uptime: Uptime required before ready (overrides IMAGEPOD_MIN_STABLE_UPTIME)
//	--health-check: Probe the service /health endpoint once the pod is ready
//	--skip-preflight: Do not verify the output bucket before deploying
//	--metrics-file: Write Prometheus metrics in textfile format
//	--json: Output in JSON format
//	--verbose, -v: Log every status poll
func Deploy() *cobra.Command {
	var (
		opts      handlers.DeployOptions
		minStable time.Duration
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create a GPU pod and wait until it is ready",
		Long: `Create a RunPod GPU pod running the image-generation service and wait
until it is ready.

The pod is created exactly once. Its status is then polled until it has
been running for the minimum stable uptime, reaches a terminal state, or
the timeout elapses. A pod that fails or times out is not deleted; its id
is printed so it can be inspected or removed.

Requires RUNPOD_API_KEY. AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_REGION are forwarded to the service when set.

Examples:
  # Deploy using imagepod.yaml in the current directory
  imagepod deploy

  # Wait up to 30 minutes and verify the service responds
  imagepod deploy --timeout 30m --health-check

  # Machine-readable output
  imagepod deploy -c qwen.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-stable-uptime") {
				opts.MinStableUptime = &minStable
			}
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to deployment file (default: imagepod.yaml)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Readiness timeout (default: 15m)")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", 0, "Wait between status polls (default: 15s)")
	cmd.Flags().DurationVar(&minStable, "min-stable-uptime", 0, "Uptime a running pod needs before it counts as ready; 0s disables the check (default: 30s)")
	cmd.Flags().BoolVar(&opts.HealthCheck, "health-check", false, "Probe the service health endpoint once the pod is ready")
	cmd.Flags().BoolVar(&opts.SkipPreflight, "skip-preflight", false, "Skip the output bucket check")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every status poll")

	return cmd
}
