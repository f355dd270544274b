package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/imamik/imagepod/internal/util/keygen"
)

// Keygen writes a new RSA key pair to path and path.pub. Existing files
// are only replaced with force.
func Keygen(path string, bits int, force bool) error {
	return generateKey(os.Stdout, path, bits, force)
}

func generateKey(out io.Writer, path string, bits int, force bool) error {
	pubPath := path + ".pub"
	if !force {
		for _, p := range []string{path, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			}
		}
	}

	kp, err := keygen.GenerateRSAKeyPair(bits)
	if err != nil {
		return err
	}

	if err := writeFile(path, kp.PrivateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := writeFile(pubPath, kp.PublicKey, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	fmt.Fprintf(out, "Private key: %s\n", path)
	fmt.Fprintf(out, "Public key:  %s\n", pubPath)
	fmt.Fprintf(out, "\nAdd to your deployment file:\n\n  ssh:\n    public_key_file: %s\n", pubPath)
	return nil
}
