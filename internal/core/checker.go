package core

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultEntry is the archive entry checked when none is configured.
const DefaultEntry = "notes"

// CheckRequest describes one round-trip check.
type CheckRequest struct {
	// ToolPath is the absolute path of the unzip executable under test.
	ToolPath string

	// ArchivePath is the absolute path of the zip archive.
	ArchivePath string

	// Entry is the archive entry to verify. Empty means DefaultEntry.
	Entry string

	// ToolArgs are placed before the archive path on the tool's command line.
	ToolArgs []string

	// Env holds extra environment variables for the tool.
	Env map[string]string
}

// CheckResult is what a finished check observed.
type CheckResult struct {
	RunID      string
	Entry      string
	Comparison Comparison
	Execution  *ExecutionResult
}

// Checker runs the zip round-trip check.
type Checker struct {
	// ScratchParent is the parent of per-run scratch directories.
	// Empty means the system temp directory.
	ScratchParent string

	Archives *ArchiveReader
	Executor *Executor
	Logger   *zap.Logger

	// newRunID is replaceable in tests.
	newRunID func() string
}

// NewChecker creates a Checker with default collaborators.
func NewChecker(logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		Archives: NewArchiveReader(),
		Executor: NewExecutor(logger),
		Logger:   logger,
		newRunID: func() string { return uuid.New().String() },
	}
}

// Check runs the round-trip check described by req.
//
// The flow:
//  1. Acquire a scratch directory (released on every return path)
//  2. Open the archive and read the entry; the tool is not run if this fails
//  3. Run the tool once with the scratch directory as working directory
//  4. Read the tool's output file
//  5. Compare
//
// A nil error means the payloads matched. Every failure, including a rejected
// request and scratch directory trouble, is a *CheckError; for KindMismatch
// the returned result carries the Comparison.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (res *CheckResult, err error) {
	if err := validateRequest(&req); err != nil {
		return nil, newCheckError(KindInvalidRequest, "validate", "", err)
	}

	runID := c.runID()
	log := c.logger().With(zap.String("run_id", runID), zap.String("entry", req.Entry))

	scratch, err := AcquireScratchDir(c.ScratchParent, runID)
	if err != nil {
		return nil, newCheckError(KindScratchDir, "acquire", c.ScratchParent, err)
	}
	defer func() {
		if rerr := scratch.Release(); rerr != nil {
			log.Warn("scratch directory not removed", zap.String("dir", scratch.Path), zap.Error(rerr))
			if err == nil {
				err = newCheckError(KindScratchDir, "release", scratch.Path, rerr)
			}
		}
	}()
	log.Debug("scratch directory acquired", zap.String("dir", scratch.Path))

	reference, err := c.readReference(log, req.ArchivePath, req.Entry)
	if err != nil {
		return nil, err
	}
	log.Debug("reference entry read", zap.Int("bytes", len(reference)))

	args := make([]string, 0, len(req.ToolArgs)+1)
	args = append(args, req.ToolArgs...)
	args = append(args, req.ArchivePath)
	cmd := Command{Binary: req.ToolPath, Args: args, Dir: scratch.Path, Env: req.Env}

	execResult, err := c.Executor.Execute(ctx, cmd)
	if err != nil {
		return nil, newCheckError(KindToolInvocation, "run", req.ToolPath, err)
	}
	if execResult.ExitCode != 0 {
		log.Warn("tool exited with non-zero status",
			zap.Int("exit_code", execResult.ExitCode),
			zap.ByteString("stderr", execResult.Stderr),
		)
		return nil, newCheckError(KindToolInvocation, "run", req.ToolPath,
			errors.Errorf("exit status %d", execResult.ExitCode))
	}

	extracted, err := NewHarvester(scratch.Path).Harvest(req.Entry)
	if err != nil {
		return nil, newCheckError(KindOutputMissing, "read output", req.Entry, err)
	}

	res = &CheckResult{
		RunID:      runID,
		Entry:      req.Entry,
		Comparison: Compare(reference, extracted),
		Execution:  execResult,
	}
	if !res.Comparison.Equal {
		log.Warn("extracted content differs",
			zap.Int("first_diff", res.Comparison.FirstDiff),
			zap.String("archive_sha256", res.Comparison.ReferenceDigest.String()),
			zap.String("extracted_sha256", res.Comparison.ExtractedDigest.String()),
		)
		return res, newCheckError(KindMismatch, "compare", req.Entry, ErrContentMismatch)
	}

	log.Info("round trip ok", zap.Int("bytes", res.Comparison.ReferenceLen))
	return res, nil
}

func (c *Checker) readReference(log *zap.Logger, archivePath, entry string) ([]byte, error) {
	archive, err := c.Archives.Open(archivePath)
	if err != nil {
		return nil, newCheckError(KindArchiveOpen, "open", archivePath, err)
	}
	defer archive.Close()

	data, err := archive.ReadEntry(entry)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			log.Debug("entry missing", zap.Strings("entries", archive.Entries()))
			return nil, newCheckError(KindEntryNotFound, "read entry", archivePath, err)
		}
		return nil, newCheckError(KindArchiveOpen, "read entry", archivePath, err)
	}
	return data, nil
}

func (c *Checker) runID() string {
	if c.newRunID == nil {
		return uuid.New().String()
	}
	return c.newRunID()
}

func (c *Checker) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// validateRequest fills defaults and rejects requests that cannot run.
func validateRequest(req *CheckRequest) error {
	if req.Entry == "" {
		req.Entry = DefaultEntry
	}
	if req.ToolPath == "" {
		return errors.New("tool path is required")
	}
	if req.ArchivePath == "" {
		return errors.New("archive path is required")
	}
	if !filepath.IsAbs(req.ToolPath) {
		return errors.Errorf("tool path must be absolute (got %q)", req.ToolPath)
	}
	if !filepath.IsAbs(req.ArchivePath) {
		return errors.Errorf("archive path must be absolute (got %q)", req.ArchivePath)
	}
	return validateEntryName(req.Entry)
}

// validateEntryName rejects names that would resolve outside the scratch
// directory.
func validateEntryName(name string) error {
	if strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return errors.Errorf("invalid entry name %q", name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasSuffix(name, "/") {
		return errors.Errorf("invalid entry name %q", name)
	}
	return nil
}
