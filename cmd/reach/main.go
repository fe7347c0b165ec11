// Package main is the entry point for the reach CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/evcraddock/reach/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
