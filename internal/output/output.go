// Package output writes conversion results so that a failed run never leaves
// a partial file at the destination.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"revolut-sepa-converter/internal/domain"
)

// WriteAtomic streams write into a temporary file next to path and renames it
// into place only when write and the sync both succeed.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %w", domain.ErrIO, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync %s: %w", domain.ErrIO, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", domain.ErrIO, path, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: failed to set permissions on %s: %w", domain.ErrIO, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: failed to move output into place: %w", domain.ErrIO, err)
	}
	return nil
}

// DefaultName replaces the extension of src with ext, which includes the dot.
func DefaultName(src, ext string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ext
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
