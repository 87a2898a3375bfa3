package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	tool := writeScript(t, t.TempDir(), "tool", `printf '%s' "$1" > arg.txt`)

	res, err := NewExecutor(nil).Execute(context.Background(), Command{
		Binary: tool,
		Args:   []string{"/path/to/a.zip"},
		Dir:    dir,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)

	got, err := os.ReadFile(filepath.Join(dir, "arg.txt"))
	require.NoError(t, err)
	assert.Equal(t, "/path/to/a.zip", string(got))
}

// TestExecute_NonZeroExitIsResult verifies a failing tool is reported through
// ExitCode rather than as an error.
func TestExecute_NonZeroExitIsResult(t *testing.T) {
	tool := writeScript(t, t.TempDir(), "tool", "echo boom >&2; exit 3")

	res, err := NewExecutor(nil).Execute(context.Background(), Command{Binary: tool, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom\n", string(res.Stderr))
}

func TestExecute_MissingBinary(t *testing.T) {
	_, err := NewExecutor(nil).Execute(context.Background(), Command{
		Binary: filepath.Join(t.TempDir(), "nope"),
		Dir:    t.TempDir(),
	})
	assert.Error(t, err)

	_, err = NewExecutor(nil).Execute(context.Background(), Command{})
	assert.Error(t, err)
}

func TestExecute_ExtraEnvVisible(t *testing.T) {
	tool := writeScript(t, t.TempDir(), "tool", `printf '%s' "$ROUNDTRIP_MARKER"`)

	res, err := NewExecutor(nil).Execute(context.Background(), Command{
		Binary: tool,
		Dir:    t.TempDir(),
		Env:    map[string]string{"ROUNDTRIP_MARKER": "m1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", string(res.Stdout))
}

func TestExecute_CancelKillsTool(t *testing.T) {
	tool := writeScript(t, t.TempDir(), "tool", "sleep 30")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewExecutor(nil).Execute(ctx, Command{Binary: tool, Dir: t.TempDir()})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecute_Timeout(t *testing.T) {
	tool := writeScript(t, t.TempDir(), "tool", "sleep 30")

	e := NewExecutor(nil)
	e.Timeout = 200 * time.Millisecond
	_, err := e.Execute(context.Background(), Command{Binary: tool, Dir: t.TempDir()})
	assert.Error(t, err)
}

func TestBuildEnv_OverridesAndAppendsSorted(t *testing.T) {
	base := []string{"PATH=/bin", "LANG=en_US.UTF-8", "HOME=/root"}
	got := buildEnv(base, map[string]string{"LANG": "C", "ZED": "1", "ALPHA": "2"})
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "ALPHA=2", "LANG=C", "ZED=1"}, got)

	assert.Equal(t, base, buildEnv(base, nil))
}

func TestAwaitExit_FinishedProcessWinsOverCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	done <- nil

	killed := false
	cancelled, err := awaitExit(ctx, done, func() { killed = true })
	assert.False(t, cancelled)
	assert.NoError(t, err)
	assert.False(t, killed, "exited process must not be killed")
}

func TestAwaitExit_CancelKillsAndReaps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)

	cancelled, err := awaitExit(ctx, done, func() { done <- context.Canceled })
	assert.True(t, cancelled)
	assert.NoError(t, err)
	assert.Empty(t, done, "Wait result must be drained")
}
