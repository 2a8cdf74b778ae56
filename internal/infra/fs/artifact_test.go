package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveArtifactWritesNestedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "charts", "mix.pdf")

	size, err := SaveArtifact(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "%PDF-1.3")
		return err
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, size)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestSaveArtifactRejectsEmptyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	_, err := SaveArtifact(path, func(io.Writer) error { return nil })
	require.ErrorIs(t, err, ErrEmptyArtifact)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "empty artifact should be removed")
}

func TestSaveArtifactPropagatesWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	boom := errors.New("boom")

	_, err := SaveArtifact(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial artifact should be removed")
}

func TestSaveArtifactUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := SaveArtifact(filepath.Join(blocker, "mix.pdf"), func(w io.Writer) error {
		_, err := io.WriteString(w, "data")
		return err
	})
	assert.Error(t, err)
}
