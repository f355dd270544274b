// Package naming provides the naming conventions for pods and the
// provider-derived hostnames that point at them.
//
// Pod names follow {base}-{6char}; the random suffix keeps repeated
// deployments of the same base name distinct, since pod creation is not
// idempotent on the provider side.
package naming
