package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failed round-trip check.
//
// The string values appear in log output and error messages; do not rename.
type ErrorKind string

const (
	KindArchiveOpen    ErrorKind = "ArchiveOpen"
	KindEntryNotFound  ErrorKind = "EntryNotFound"
	KindToolInvocation ErrorKind = "ToolInvocation"
	KindOutputMissing  ErrorKind = "OutputMissing"
	KindMismatch       ErrorKind = "Mismatch"

	// KindInvalidRequest marks requests rejected before anything runs.
	KindInvalidRequest ErrorKind = "InvalidRequest"
	// KindScratchDir marks failures to create or remove the scratch directory.
	KindScratchDir ErrorKind = "ScratchDir"
)

var (
	// ErrEntryNotFound is returned when the archive has no entry with the requested name.
	ErrEntryNotFound = errors.New("entry not found in archive")

	// ErrOutputMissing is returned when the tool did not produce the expected file.
	ErrOutputMissing = errors.New("tool did not produce expected output")

	// ErrContentMismatch is the cause of every KindMismatch error.
	ErrContentMismatch = errors.New("extracted content differs from archive entry")
)

// CheckError is the single error type returned by Checker.Check.
//
// Kind is the stable discriminator; Err carries the underlying cause and is
// reachable through errors.Is / errors.As.
type CheckError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *CheckError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckError) Unwrap() error { return e.Err }

func newCheckError(kind ErrorKind, op, path string, err error) *CheckError {
	return &CheckError{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf reports the ErrorKind of err, or "" if err is not (or does not wrap)
// a *CheckError.
func KindOf(err error) ErrorKind {
	var ce *CheckError
	if errors.As(err, &ce) && ce != nil {
		return ce.Kind
	}
	return ""
}

// IsMismatch reports whether err is a content mismatch.
func IsMismatch(err error) bool {
	return KindOf(err) == KindMismatch
}
