package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"unziptester/internal/cli"
)

// main resolves relative arguments against the process working directory;
// everything below this boundary takes that directory explicitly.
func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFault)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result, _ := cli.Run(ctx, os.Args[1:], cwd, cli.Streams{Out: os.Stdout, Err: os.Stderr})
	stop()
	os.Exit(result.ExitCode)
}
