// Package fsutil holds small file helpers shared by the writers of sprite
// images and GameMaker project files.
package fsutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// ReadFile reads the file at path; a missing file is not an error and yields
// nil.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// WriteFile writes b via a temp file, then atomically replaces the target.
func WriteFile(path string, b []byte, mode os.FileMode) error {
	return WriteWith(path, mode, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// WriteWith streams the output of write into a temp file next to path and
// renames it over path once write succeeds.
func WriteWith(path string, mode os.FileMode, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// SameFile reports whether a and b name the same file. When either cannot
// be resolved the cleaned paths are compared.
func SameFile(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// CopyFile copies src to dst atomically.
func CopyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFile(dst, b, 0o644)
}

// Equal reports whether the file at path holds exactly b.
func Equal(path string, b []byte) bool {
	cur, err := os.ReadFile(path)
	return err == nil && bytes.Equal(cur, b)
}
