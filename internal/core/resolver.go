package core

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PathResolver coerces user-supplied paths to absolute, cleaned paths.
//
// Relative paths are joined with BaseDir. The process working directory is
// never consulted here; callers that want cwd semantics pass os.Getwd() as
// BaseDir explicitly.
type PathResolver struct {
	// BaseDir must be absolute.
	BaseDir string
}

// NewPathResolver creates a PathResolver rooted at baseDir.
func NewPathResolver(baseDir string) *PathResolver {
	return &PathResolver{BaseDir: baseDir}
}

// Resolve returns the absolute form of p.
//
// Returns an error if:
//   - p is empty or only whitespace
//   - p is relative and BaseDir is not absolute
func (r *PathResolver) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("path must not be empty")
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if !filepath.IsAbs(r.BaseDir) {
		return "", errors.Errorf("base directory must be absolute (got %q)", r.BaseDir)
	}
	// BaseDir is absolute, so Join does not consult the process cwd.
	return filepath.Join(r.BaseDir, p), nil
}

// ResolveAll resolves every path in order, stopping at the first error.
func (r *PathResolver) ResolveAll(paths ...string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := r.Resolve(p)
		if err != nil {
			return nil, errors.WithMessagef(err, "resolving %q", p)
		}
		out = append(out, abs)
	}
	return out, nil
}
