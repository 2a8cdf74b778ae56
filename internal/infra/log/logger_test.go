package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnableFileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, EnableFileLogging(dir))
	t.Cleanup(func() { Logger = zap.NewNop() })

	LogInfo("Chart rendered", zap.String("pdf", "mix.pdf"), zap.Int("barsCount", 6))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "INFO Chart rendered")
	assert.Contains(t, line, `"pdf":"mix.pdf"`)
	assert.Contains(t, line, `"barsCount":6`)
}

func TestConsoleFieldsKeepsPathsAndErrors(t *testing.T) {
	fields := consoleFields([]zap.Field{
		zap.String("path", "mix.png"),
		zap.Int("barsCount", 6),
		zap.Error(os.ErrNotExist),
	})
	require.Len(t, fields, 2)
	assert.Equal(t, "path", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
}

func TestConsoleFieldsKeepBenchTimings(t *testing.T) {
	fields := consoleFields([]zap.Field{
		zap.String("container", "hash map"),
		zap.Int("inserts", 1000),
		zap.Duration("insertTime", time.Millisecond),
	})
	require.Len(t, fields, 2)
	assert.Equal(t, "container", fields[0].Key)
	assert.Equal(t, "insertTime", fields[1].Key)
}
