package fs

import (
	iofs "io/fs"
)

// FileSystem is what the build reads templates and assets from and writes
// pages to.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
}
