package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// exitFailure is the exit code for any failed command. Cobra has already
// printed the error by the time control returns here.
const exitFailure = 1

func main() {
	// SIGINT and SIGTERM cancel the command context. A scan interrupted
	// mid-bundle leaves its checkpoint behind for --resume.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitFailure)
	}
}
