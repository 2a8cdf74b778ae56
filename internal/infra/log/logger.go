package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger receives every record; it writes to the log file once file
	// logging is enabled and discards records before that.
	Logger        = zap.NewNop()
	consoleLogger = zap.NewNop()
	mu            sync.Mutex
)

func init() {
	l, err := newConsoleLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize console logger: %v\n", err)
		return
	}
	consoleLogger = l
}

func newConsoleLogger() (*zap.Logger, error) {
	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	consoleConfig.OutputPaths = []string{"stderr"}

	l, err := consoleConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build console logger: %w", err)
	}
	return l, nil
}

// EnableFileLogging sends all records to <dir>/app.log.
func EnableFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	writer, err := newLogFileWriter(filepath.Join(dir, "app.log"))
	if err != nil {
		return err
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	core := zapcore.NewCore(
		&fileEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)},
		writer,
		zapcore.DebugLevel,
	)

	mu.Lock()
	Logger = zap.New(core)
	mu.Unlock()
	return nil
}

// Sync flushes the file logger.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	Logger.Sync()
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset) // console INFO is only used for successes
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

func fileLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return Logger
}

// LogInfo writes to the log file only
func LogInfo(message string, fields ...zap.Field) {
	fileLogger().Info(message, fields...)
}

// LogSuccess writes to the log file and prints a check line on the console
func LogSuccess(message string, fields ...zap.Field) {
	fileLogger().Info(message, fields...)
	consoleLogger.Info("✓ "+message, consoleFields(fields)...)
}

// LogWarn writes to the log file and the console
func LogWarn(message string, fields ...zap.Field) {
	fileLogger().Warn(message, fields...)
	consoleLogger.Warn(message, consoleFields(fields)...)
}

// LogError writes to the log file and the console
func LogError(message string, fields ...zap.Field) {
	fileLogger().Error(message, fields...)
	consoleLogger.Error("✗ "+message, consoleFields(fields)...)
}

// LogDebug writes to the log file only
func LogDebug(message string, fields ...zap.Field) {
	fileLogger().Debug(message, fields...)
}

// consoleFields keeps the console short: only paths, errors, container names
// and durations are shown.
func consoleFields(fields []zap.Field) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		if shownOnConsole(f) {
			out = append(out, f)
		}
	}
	return out
}

func shownOnConsole(f zap.Field) bool {
	switch f.Type {
	case zapcore.ErrorType, zapcore.DurationType:
		return true
	}
	switch f.Key {
	case "path", "pdf", "container":
		return true
	}
	return false
}

const (
	// MaxLogFileSize caps app.log; the file is truncated once it grows past it.
	MaxLogFileSize = 10 * 1024 * 1024
)

type cappedLogWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

func (w *cappedLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := w.file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		w.file, err = os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
	}

	return w.file.Write(p)
}

func (w *cappedLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func newLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &cappedLogWriter{file: file, path: path}, nil
}

// fileEncoder writes "time     LEVEL message\t{json fields}" lines.
type fileEncoder struct {
	zapcore.Encoder
}

func (e *fileEncoder) Clone() zapcore.Encoder {
	return &fileEncoder{Encoder: e.Encoder.Clone()}
}

func (e *fileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			f.AddTo(enc)
		}
		if jsonData, err := json.Marshal(enc.Fields); err == nil {
			buf.AppendString("\t")
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
