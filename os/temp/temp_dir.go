// Package temp makes temporary directories and files that are cleaned up
// unless explicitly kept. The more you use this to create temporary files,
// the fewer places we need to change when we want to relocate them.
package temp

import (
	"os"
)

// Create a new TempDir in directory dir with prefix string.
func NewTempDir(dir, prefix string) (*TempDir, error) {
	p, err := os.MkdirTemp(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &TempDir{Dir: p}, nil
}

// TempDir is a temporary directory, that may live under other temporary directories.
type TempDir struct {
	Dir string
}

// Create a new temporary file under d. pattern follows os.CreateTemp.
func (d *TempDir) TempFile(pattern string) (*TempFile, error) {
	f, err := os.CreateTemp(d.Dir, pattern)
	if err != nil {
		return nil, err
	}
	return &TempFile{File: f}, nil
}

// Remove removes the directory and everything under it.
func (d *TempDir) Remove() error {
	return os.RemoveAll(d.Dir)
}

// TempFile is an open temporary file that is deleted by Discard
// unless it has been moved away with Keep.
type TempFile struct {
	*os.File
	closed bool
	kept   bool
}

// Close closes the underlying file; closing twice is a no-op.
func (f *TempFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.File.Close()
}

// Keep closes the file and renames it to dest, after which Discard does nothing.
func (f *TempFile) Keep(dest string) error {
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), dest); err != nil {
		return err
	}
	f.kept = true
	return nil
}

// Discard closes and removes the file unless it was kept. Safe to defer.
func (f *TempFile) Discard() {
	if f.kept {
		return
	}
	f.Close()
	os.Remove(f.Name())
}
