package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coderelay/fmtbridge/internal/cli"
)

// main bootstraps the fmtbridge command. Interrupts cancel the in-flight
// formatting request; cleanup and exit codes are handled inside cli.Run.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
