// Package common holds what the report writers share: output file handling
// and the row view of a report.
package common

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrOutputExists is returned instead of overwriting an existing report.
var ErrOutputExists = errors.New("output file already exists")

// EnsureFree fails with ErrOutputExists when path is taken.
func EnsureFree(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check output path: %w", err)
	}
	return nil
}

// CreateFile creates path, which must not exist yet, and fills it with
// write. A partially written file is removed on error.
func CreateFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}

// WriteFile replaces path with what write produces. The previous report
// stays in place until the new one is complete.
func WriteFile(path string, write func(w io.Writer) error) error {
	return Replace(path, func(tmp string) (err error) {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to close %s: %w", path, cerr)
			}
		}()
		return write(f)
	})
}

// Replace lets build fill a scratch path next to path and renames it over
// path on success. The scratch file is removed on error.
func Replace(path string, build func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmp := f.Name()
	f.Close()
	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := build(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
