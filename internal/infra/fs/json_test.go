package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": 10, "2": 20}`), 0644))

	var got map[string]int
	require.NoError(t, LoadJSON(path, &got))
	assert.Equal(t, map[string]int{"1": 10, "2": 20}, got)
}

func TestLoadJSONErrors(t *testing.T) {
	dir := t.TempDir()
	var got map[string]int

	err := LoadJSON(filepath.Join(dir, "missing.json"), &got)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"1": `), 0644))
	err = LoadJSON(bad, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
