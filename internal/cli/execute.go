package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"unziptester/internal/core"
)

const (
	msgAllOK    = "All ok."
	msgMismatch = "Uncompression failed."
)

type CLIResult struct {
	ExitCode int

	// Check is nil when the check did not get as far as a comparison.
	Check *core.CheckResult
}

// Streams are the writers a run reports to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// Execute runs the check for a canonical invocation and reports the outcome.
//
// Responsibilities:
//   - Configure the checker from the invocation.
//   - Print the result line: msgAllOK on match, msgMismatch plus a
//     description on mismatch.
//   - Translate the outcome to a semantic exit code.
func Execute(ctx context.Context, inv Invocation, logger *zap.Logger, streams Streams) (CLIResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	checker := core.NewChecker(logger)
	checker.ScratchParent = inv.TmpDir
	checker.Executor.Timeout = inv.Timeout

	logger.Debug("checking archive",
		zap.String("tool", inv.ToolPath),
		zap.String("archive", inv.ArchivePath),
		zap.Strings("tool_args", inv.ToolArgs),
		zap.Duration("timeout", inv.Timeout),
	)

	res, err := checker.Check(ctx, inv.Request())
	switch {
	case err == nil:
		fmt.Fprintln(streams.Out, msgAllOK)
	case core.IsMismatch(err):
		fmt.Fprintln(streams.Out, msgMismatch)
		if res != nil {
			fmt.Fprint(streams.Err, res.Comparison.Describe())
		}
	}
	return CLIResult{ExitCode: ExitCode(err), Check: res}, err
}
