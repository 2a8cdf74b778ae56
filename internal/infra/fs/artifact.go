package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyArtifact is returned when a writer produced no bytes.
var ErrEmptyArtifact = errors.New("artifact is empty after rendering")

// SaveArtifact creates path (and its parent directories), hands the file to
// write and closes it on every path. Empty or failed output is removed so a
// stale or truncated file never stays behind. Returns the written size.
func SaveArtifact(path string, write func(w io.Writer) error) (size int64, err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := write(file); err != nil {
		return 0, err
	}

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyArtifact)
	}
	return info.Size(), nil
}
