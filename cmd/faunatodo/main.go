// Package main is the entry point for the faunatodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"faunatodo/internal/cli"
	"faunatodo/internal/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// A nil factory talks to the proxy at FAUNATODO_API_URL.
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
