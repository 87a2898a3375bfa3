package core

import (
	"archive/zip"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// ArchiveReader opens zip archives with the built-in reader.
type ArchiveReader struct{}

// NewArchiveReader creates an ArchiveReader.
func NewArchiveReader() *ArchiveReader {
	return &ArchiveReader{}
}

// Archive is an opened zip archive. Close it when done.
type Archive struct {
	Path string
	rc   *zip.ReadCloser
}

// Open opens the archive at path. The error wraps the underlying os or
// zip.ErrFormat error.
func (r *ArchiveReader) Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	return &Archive{Path: path, rc: rc}, nil
}

// ReadEntry returns the decompressed bytes of the entry called name.
// Returns ErrEntryNotFound (wrapped) if no such entry exists.
func (a *Archive) ReadEntry(name string) ([]byte, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q in %s", name, a.Path)
	}
	r, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening entry %q", name)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading entry %q", name)
	}
	return data, nil
}

// Entries returns the names of all file entries, sorted.
func (a *Archive) Entries() []string {
	names := make([]string, 0, len(a.rc.File))
	for _, f := range a.rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Close releases the underlying file handle.
func (a *Archive) Close() error {
	if a == nil || a.rc == nil {
		return nil
	}
	return a.rc.Close()
}

func (a *Archive) lookup(name string) *zip.File {
	for _, f := range a.rc.File {
		if f.Name == name && !f.FileInfo().IsDir() {
			return f
		}
	}
	return nil
}
