package core

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ScratchDir is a temporary directory exclusively owned by one check run.
//
// Acquire with AcquireScratchDir and always pair with a deferred Release.
type ScratchDir struct {
	// Path is the absolute directory path.
	Path string

	once sync.Once
	err  error
}

// AcquireScratchDir creates a fresh directory under parent (or the system
// temp directory when parent is empty). runID is embedded in the name so
// concurrent runs are distinguishable on disk.
func AcquireScratchDir(parent, runID string) (*ScratchDir, error) {
	pattern := "unziptester-*"
	if runID != "" {
		pattern = "unziptester-" + runID + "-*"
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating scratch directory")
	}
	return &ScratchDir{Path: dir}, nil
}

// Release removes the directory and everything in it.
// Only the first call does any work; later calls return the first result.
//
// Unzip tools restore stored directory modes, so the tree may contain
// directories the owner cannot write into. When plain removal fails, every
// directory is given u+rwx and removal is retried.
func (s *ScratchDir) Release() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := os.RemoveAll(s.Path); err == nil {
			return
		}
		if err := makeTreeRemovable(s.Path); err != nil {
			s.err = errors.Wrapf(err, "restoring permissions under %s", s.Path)
			return
		}
		if err := os.RemoveAll(s.Path); err != nil {
			s.err = errors.Wrapf(err, "removing scratch directory %s", s.Path)
		}
	})
	return s.err
}

// makeTreeRemovable adds owner rwx to dir and every directory below it.
// Each directory is chmodded before it is listed, so trees with unreadable
// directories (mode 0000) are handled too. Symlinks are not followed.
func makeTreeRemovable(dir string) error {
	info, err := os.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}
	if err := os.Chmod(dir, info.Mode().Perm()|0o700); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := makeTreeRemovable(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
