// Package keygen generates and validates SSH keys for pod access.
//
// Generated keys are RSA, with the private key in PEM format and the public
// key in OpenSSH authorized_keys format, which is what the provider expects
// in the pod's PUBLIC_KEY environment variable.
package keygen
