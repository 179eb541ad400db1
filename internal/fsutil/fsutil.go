// Package fsutil reads files confined to a directory. Reads go through an
// os.Root, so symlinks and relative names cannot escape it.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir is an open directory whose files can be read by name.
type Dir struct {
	root *os.Root
	path string
}

// OpenDir opens path for scoped reads.
func OpenDir(path string) (*Dir, error) {
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, err
	}
	return &Dir{root: root, path: path}, nil
}

// Path returns the directory the Dir was opened at.
func (d *Dir) Path() string {
	return d.path
}

// ReadFile reads the named file inside the directory.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	f, err := d.root.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Close releases the directory handle.
func (d *Dir) Close() error {
	return d.root.Close()
}

// ReadFileScoped reads a single file by opening a root at its directory.
func ReadFileScoped(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %q", path)
	}

	d, err := OpenDir(filepath.Dir(cleaned))
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.ReadFile(base)
}
