package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"unziptester/internal/config"
	"unziptester/internal/core"
)

const (
	ExitSuccess           = 0
	ExitMismatch          = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitFault             = 4
)

// Options are the raw command-line values. Zero values mean "not given on
// the command line", so the config file or built-in default applies.
type Options struct {
	ConfigPath string
	Entry      string
	ToolArgs   []string
	Timeout    *time.Duration
	TmpDir     string
	Verbose    bool
}

// Invocation is the fully canonicalized description of a run.
//
// All paths are absolute and cleaned. Relative inputs were resolved against
// BaseDir, which is supplied by the caller rather than read from the process.
type Invocation struct {
	BaseDir     string
	ToolPath    string
	ArchivePath string
	Entry       string
	ToolArgs    []string
	Env         map[string]string
	Timeout     time.Duration
	TmpDir      string
	Verbose     bool

	OriginalTool    string
	OriginalArchive string
}

// Request converts the invocation into a check request.
func (inv Invocation) Request() core.CheckRequest {
	return core.CheckRequest{
		ToolPath:    inv.ToolPath,
		ArchivePath: inv.ArchivePath,
		Entry:       inv.Entry,
		ToolArgs:    inv.ToolArgs,
		Env:         inv.Env,
	}
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// BuildInvocation canonicalizes positional arguments and options.
//
// Precedence for every setting: built-in default < config file < flag.
//
// Determinism goals:
//   - Does not read env vars.
//   - Does not read the process CWD; baseDir must be absolute.
func BuildInvocation(positional []string, opts Options, baseDir string) (Invocation, error) {
	if len(positional) != 2 {
		return Invocation{}, invalidInvocationf("expected 2 arguments <tool> <archive>, got %d", len(positional))
	}
	baseDir = filepath.Clean(baseDir)
	if !filepath.IsAbs(baseDir) {
		return Invocation{}, invalidInvocationf("base directory must be an absolute path (got %q)", baseDir)
	}
	resolver := core.NewPathResolver(baseDir)

	paths, err := resolver.ResolveAll(positional...)
	if err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}

	cfg, err := loadConfig(resolver, opts.ConfigPath)
	if err != nil {
		return Invocation{}, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return Invocation{}, configErrorf("%v", err)
	}

	inv := Invocation{
		BaseDir:         baseDir,
		ToolPath:        paths[0],
		ArchivePath:     paths[1],
		Entry:           cfg.Entry,
		ToolArgs:        cfg.ToolArgs,
		Env:             cfg.Env,
		Timeout:         timeout,
		TmpDir:          cfg.TmpDir,
		Verbose:         cfg.Verbose || opts.Verbose,
		OriginalTool:    positional[0],
		OriginalArchive: positional[1],
	}

	if opts.Entry != "" {
		inv.Entry = opts.Entry
	}
	if opts.ToolArgs != nil {
		inv.ToolArgs = opts.ToolArgs
	}
	if opts.Timeout != nil {
		if *opts.Timeout < 0 {
			return Invocation{}, invalidInvocationf("--timeout must not be negative (got %s)", *opts.Timeout)
		}
		inv.Timeout = *opts.Timeout
	}
	if opts.TmpDir != "" {
		inv.TmpDir = opts.TmpDir
	}
	if inv.TmpDir != "" {
		if inv.TmpDir, err = resolver.Resolve(inv.TmpDir); err != nil {
			return Invocation{}, invalidInvocationf("%v", err)
		}
	}
	if inv.Entry == "" {
		inv.Entry = core.DefaultEntry
	}
	return inv, nil
}

func loadConfig(resolver *core.PathResolver, path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	abs, err := resolver.Resolve(path)
	if err != nil {
		return nil, invalidInvocationf("%v", err)
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return nil, configErrorf("%v", errors.WithMessagef(err, "config %s", abs))
	}
	return cfg, nil
}

// ExitCode maps an error from a run to a semantic exit code.
//
// Content mismatch is the one expected failure and has its own code; every
// other check failure shares ExitFault.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if core.IsMismatch(err) {
		return ExitMismatch
	}
	return ExitFault
}
