package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRendersChart(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	pdfPath := filepath.Join(dir, "out", "speedup.pdf")
	rootCmd.SetArgs([]string{
		"--chart.output_path", pdfPath,
		"--chart.preview_path", filepath.Join(dir, "out", "speedup.png"),
		"--display.enabled=false",
	})
	rootCmd.SetOut(&bytes.Buffer{})
	require.NoError(t, Execute())

	info, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = os.Stat(filepath.Join(dir, "out", "speedup.png"))
	assert.NoError(t, err)
}
