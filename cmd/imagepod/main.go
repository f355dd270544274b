// Package main is the entry point for the imagepod CLI.
//
// imagepod deploys a containerized image-generation service onto a RunPod
// GPU pod, waits until the pod is ready, and prints how to reach it.
//
// Commands: deploy, status, keygen, version, completion.
//
// For detailed usage information, run:
//
//	imagepod --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/imagepod/cmd/imagepod/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
