package macro

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/holeplate/pkg/layout"
)

// WriteFile stitches the hole lines between the fragments stored at
// firstPath and secondPath and writes the result to path. Both fragments
// are opened before path is touched, and the output is renamed into place
// only once fully written.
func WriteFile(path, firstPath, secondPath string, holes []layout.HolePosition, style Style) error {
	first, err := os.Open(firstPath)
	if err != nil {
		return fmt.Errorf("macro: open first fragment: %w", err)
	}
	defer first.Close()

	second, err := os.Open(secondPath)
	if err != nil {
		return fmt.Errorf("macro: open second fragment: %w", err)
	}
	defer second.Close()

	return writeAtomic(path, func(w io.Writer) error {
		return Stitch(w, first, holes, second, style)
	})
}

// WriteDumpFile writes the CSV coordinate dump to path.
func WriteDumpFile(path string, holes []layout.HolePosition) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteDump(w, holes)
	})
}

// writeAtomic runs fn against a temporary file next to path and renames it
// over path on success. On failure the temporary file is removed and path
// is left untouched.
func writeAtomic(path string, fn func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("macro: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("macro: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("macro: close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("macro: chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("macro: rename into %s: %w", path, err)
	}
	return nil
}
