package fs

import (
	"errors"
	iofs "io/fs"
	"path"
	"path/filepath"
	"strings"
)

// ReadOnlyFileSystem serves files from an io/fs.FS, such as an embedded
// build or an in-memory fstest.MapFS.
type ReadOnlyFileSystem struct {
	fs iofs.FS
}

var ErrReadOnly = errors.New("filesystem is read-only")

func NewReadOnlyFileSystem(fsys iofs.FS) *ReadOnlyFileSystem {
	return &ReadOnlyFileSystem{fs: fsys}
}

func (fs *ReadOnlyFileSystem) ReadFile(name string) ([]byte, error) {
	return iofs.ReadFile(fs.fs, cleanPath(name))
}

func (fs *ReadOnlyFileSystem) FileExists(name string) bool {
	info, err := iofs.Stat(fs.fs, cleanPath(name))
	return err == nil && !info.IsDir()
}

func (fs *ReadOnlyFileSystem) WriteFile(name string, data []byte, perm iofs.FileMode) error {
	return ErrReadOnly
}

func (fs *ReadOnlyFileSystem) MkdirAll(name string, perm iofs.FileMode) error {
	return ErrReadOnly
}

// cleanPath turns OS-style relative paths into io/fs paths.
func cleanPath(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}
