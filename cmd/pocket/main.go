package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cloudpocket/pocket-cli/internal/cli/command"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
	"github.com/cloudpocket/pocket-cli/internal/infra/shutdown"
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx, stop := shutdown.WithSignals(context.Background())
	err := command.App().RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for input rejected before any request was sent.
func exitCode(err error) int {
	if domain.IsValidation(err) {
		return 2
	}
	return 1
}
