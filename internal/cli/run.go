package cli

import (
	"context"
	"fmt"

	"unziptester/internal/core"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and the directory that
// relative paths resolve against, and returns the semantic exit code plus
// any error. Failures other than a content mismatch are also printed to
// streams.Err.
func Run(ctx context.Context, args []string, baseDir string, streams Streams) (CLIResult, error) {
	c := &command{baseDir: baseDir, streams: streams}
	c.result.ExitCode = ExitFault

	root := newRootCommand(c)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if c.logger != nil {
		_ = c.logger.Sync()
	}

	if err != nil {
		if !core.IsMismatch(err) {
			fmt.Fprintf(streams.Err, "unziptester: %v\n", err)
		}
		c.result.ExitCode = ExitCode(err)
		return c.result, err
	}
	c.result.ExitCode = ExitSuccess
	return c.result, nil
}
