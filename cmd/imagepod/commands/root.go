// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the imagepod CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "imagepod",
		Short:        "Deploy an image-generation service on a RunPod GPU pod",
		SilenceUsage: true,
	}

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Keygen())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
