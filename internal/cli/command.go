package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// command holds per-run state shared between the cobra hooks.
type command struct {
	baseDir string
	streams Streams

	opts    Options
	timeout time.Duration

	inv    Invocation
	logger *zap.Logger
	result CLIResult
}

// newRootCommand builds a fresh command tree. Nothing is global, so tests
// can run many invocations in one process.
func newRootCommand(c *command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unziptester [flags] <tool> <archive>",
		Short: "Verify an unzip tool reproduces a zip entry byte-for-byte",
		Long: `unziptester reads an entry (default "notes") from a zip archive with the
built-in reader, runs <tool> <archive> inside a fresh temporary directory,
and compares the file the tool wrote with the archive's bytes.

Prints "All ok." and exits 0 on a match; prints "Uncompression failed." and
exits 1 on a mismatch. Any other failure exits non-zero.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return invalidInvocationf("expected 2 arguments <tool> <archive>, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("timeout") {
				timeout := c.timeout
				c.opts.Timeout = &timeout
			}
			inv, err := BuildInvocation(args, c.opts, c.baseDir)
			if err != nil {
				return err
			}
			c.inv = inv
			c.logger = newLogger(c.streams.Err, inv.Verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := Execute(cmd.Context(), c.inv, c.logger, c.streams)
			c.result = res
			return err
		},
	}

	cmd.SetOut(c.streams.Out)
	cmd.SetErr(c.streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	flags := cmd.Flags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "TOML config file")
	flags.StringVar(&c.opts.Entry, "entry", "", `archive entry to verify (default "notes")`)
	flags.StringArrayVar(&c.opts.ToolArgs, "tool-arg", nil, "extra argument passed to the tool before the archive (repeatable)")
	flags.DurationVar(&c.timeout, "timeout", 0, "tool timeout; 0 means none")
	flags.StringVar(&c.opts.TmpDir, "tmp-dir", "", "parent directory for the scratch directory")
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "debug logging")
	return cmd
}
