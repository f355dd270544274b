package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/imagepod/cmd/imagepod/handlers"
)

// Status returns the command for inspecting an existing pod.
func Status() *cobra.Command {
	var port int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <pod-id>",
		Short: "Show the current status of a pod",
		Long: `Fetch the current status of a pod once and classify it.

Examples:
  imagepod status zwi3zrty402ecv
  imagepod status zwi3zrty402ecv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), args[0], port, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port used for the proxy URL")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
