package core

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Harvester reads files the tool produced in its working directory.
//
// Only the file explicitly asked for is read; nothing else in the directory
// is inspected.
type Harvester struct {
	// BaseDir is the directory the tool ran in.
	BaseDir string
}

// NewHarvester creates a Harvester for baseDir.
func NewHarvester(baseDir string) *Harvester {
	return &Harvester{BaseDir: baseDir}
}

// Harvest returns the content of the file called name under BaseDir.
//
// name uses forward slashes, the way zip entry names do.
//
// Returns ErrOutputMissing (wrapped) if:
//   - the file does not exist
//   - a directory exists in its place
func (h *Harvester) Harvest(name string) ([]byte, error) {
	path := filepath.Join(h.BaseDir, filepath.FromSlash(name))

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrOutputMissing, "%s", name)
		}
		return nil, errors.Wrapf(err, "stat output %q", name)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrOutputMissing, "%s is a directory", name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading output %q", name)
	}
	return content, nil
}
