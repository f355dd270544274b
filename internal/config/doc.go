// Package config defines the deployment configuration model for imagepod.
//
// A [Deployment] is the user-facing description of a pod: accelerator,
// sizing, ports, environment, and the image-generation service settings
// that are forwarded to the container. It is read from YAML by [LoadFile]
// and turned into a provisioning request by the provisioning package.
//
// Polling and retry timings are not part of the file; they come from
// environment variables via [LoadTimeouts] and may be overridden by CLI flags.
package config
