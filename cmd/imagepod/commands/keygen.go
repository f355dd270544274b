package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/imagepod/cmd/imagepod/handlers"
	"github.com/imamik/imagepod/internal/util/keygen"
)

// Keygen returns the command for generating an SSH key pair for pod access.
func Keygen() *cobra.Command {
	var output string
	var bits int
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an SSH key pair for pod access",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Keygen(output, bits, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "imagepod_rsa", "Private key path; the public key is written to <path>.pub")
	cmd.Flags().IntVar(&bits, "bits", 4096, fmt.Sprintf("RSA key size (minimum %d)", keygen.MinRSABits))
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing key files")

	return cmd
}
