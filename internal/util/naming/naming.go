package naming

import (
	"fmt"
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

// suffixAlphabet keeps generated names DNS-label safe.
const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const suffixLength = 6

// Provider hostnames.
const (
	ProxyDomain = "proxy.runpod.net"
	SSHHost     = "ssh.runpod.io"
)

// Pod derives a unique pod name from a base name.
func Pod(base string) string {
	return fmt.Sprintf("%s-%s", Sanitize(base), Suffix())
}

// Suffix returns a random lowercase suffix.
func Suffix() string {
	return shortuuid.NewWithAlphabet(suffixAlphabet)[:suffixLength]
}

// Sanitize lowercases a base name and replaces anything outside [a-z0-9-].
func Sanitize(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(base)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// ProxyHost is the public hostname the provider routes to an exposed HTTP port.
func ProxyHost(podID string, port int) string {
	return fmt.Sprintf("%s-%d.%s", podID, port, ProxyDomain)
}

// SSHTarget is the user@host string for the provider's SSH gateway.
func SSHTarget(podHostID string) string {
	return fmt.Sprintf("%s@%s", podHostID, SSHHost)
}
