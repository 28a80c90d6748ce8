package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/swparks/sw-cli/internal/cmd"
)

var (
	executeCmd  = cmd.Execute
	mapExitCode = cmd.ExitCode
	terminate   = os.Exit
)

// run executes the CLI. An interrupt cancels the context, which aborts
// requests in flight.
func run(ctx context.Context, args []string) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := executeCmd(ctx, args); err != nil {
		return mapExitCode(err)
	}
	return 0
}

func main() {
	terminate(run(context.Background(), os.Args[1:]))
}
