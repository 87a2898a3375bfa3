package core

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Command describes one invocation of the tool under test.
type Command struct {
	// Binary is the absolute path of the executable.
	Binary string

	// Args are passed verbatim, without shell interpretation.
	Args []string

	// Dir is the working directory of the child process.
	Dir string

	// Env holds extra variables layered over the host environment.
	Env map[string]string
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	parts := append([]string{c.Binary}, c.Args...)
	return strings.Join(parts, " ")
}

// ExecutionResult contains the outcome of a finished child process.
type ExecutionResult struct {
	Stdout []byte
	Stderr []byte

	// ExitCode is the process exit code. 0 indicates success.
	ExitCode int

	Duration time.Duration
}

// Executor runs the tool as a child process and waits for it.
//
// A non-zero exit status is reported in ExecutionResult, not as an error.
// Errors are reserved for processes that could not be started or were
// cancelled.
type Executor struct {
	// Timeout bounds a single run. Zero means no timeout: a hung tool blocks
	// until ctx is cancelled.
	Timeout time.Duration

	Logger *zap.Logger
}

// NewExecutor creates an Executor with no timeout.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{Logger: logger}
}

// Execute runs cmd and blocks until it exits or ctx is done.
//
// On cancellation the whole process group is killed, so tools that fork
// helpers do not outlive the check.
func (e *Executor) Execute(ctx context.Context, cmd Command) (*ExecutionResult, error) {
	if cmd.Binary == "" {
		return nil, errors.New("binary is required")
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.Command(cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = buildEnv(os.Environ(), cmd.Env)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	e.logger().Debug("starting tool",
		zap.String("command", cmd.String()),
		zap.String("dir", cmd.Dir),
	)

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", cmd.Binary)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Wait()
	}()

	cancelled, err := awaitExit(ctx, done, func() {
		if c.Process != nil {
			_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		}
	})
	if cancelled {
		return nil, errors.Wrap(ctx.Err(), "tool execution cancelled")
	}

	result := &ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "waiting for %s", cmd.Binary)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	e.logger().Debug("tool finished",
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
		zap.Int("stdout_bytes", len(result.Stdout)),
		zap.Int("stderr_bytes", len(result.Stderr)),
	)
	return result, nil
}

// awaitExit waits for the Wait result on done. If ctx ends first, kill is
// called and the process is reaped before returning cancelled. A result that
// is already on done when ctx ends is returned as a normal exit.
func awaitExit(ctx context.Context, done <-chan error, kill func()) (cancelled bool, err error) {
	select {
	case err = <-done:
		return false, err
	case <-ctx.Done():
	}
	select {
	case err = <-done:
		return false, err
	default:
	}
	kill()
	<-done
	return true, nil
}

func (e *Executor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// buildEnv layers extra over base. Keys in extra replace matching keys in
// base; the added keys are appended in sorted order.
func buildEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, overridden := extra[key]; overridden {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}
