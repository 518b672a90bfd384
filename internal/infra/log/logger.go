package log

// Two-sink logging: everything goes to <dir>/app.log, successes and errors are
// echoed to the console with a coloured level.
// Loggers are no-ops until Setup is called so packages stay quiet under test.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()
var consoleLogger = zap.NewNop() // ERROR and SUCCESS
var setupOnce sync.Once
var setupErr error

// Setup builds the file and console loggers. Only the first call has an effect.
func Setup(dir string) error {
	setupOnce.Do(func() {
		setupErr = initializeLoggers(dir)
	})
	if setupErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize loggers: %v\n", setupErr)
	}
	return setupErr
}

// Sync flushes both sinks.
func Sync() {
	_ = Logger.Sync()
	_ = consoleLogger.Sync()
}

func initializeLoggers(dir string) error {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileCore := zapcore.NewCore(
		newLineEncoder(),
		getLogFileWriter(filepath.Join(dir, "app.log")),
		zapcore.DebugLevel,
	)

	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = consoleLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	console, err := consoleConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build console logger: %w", err)
	}

	Logger = zap.New(fileCore)
	consoleLogger = console
	return nil
}

// NewRunID tags every line written during one tracker run.
func NewRunID() string {
	return uuid.NewString()
}

// RunLogger returns the file logger bound to a run id.
func RunLogger(runID string) *zap.Logger {
	return Logger.With(zap.String("run_id", runID))
}

// LogRequest records an outgoing HTTP request (file only).
func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	}, fields...)
	Logger.Info("HTTP request", allFields...)
}

// LogResponse records a response; non-2xx statuses are echoed to the console.
func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if statusCode >= 200 && statusCode < 300 {
		Logger.Info("HTTP response", allFields...)
		return
	}
	Logger.Error("HTTP response", allFields...)
	if endpoint := endpointField(fields); endpoint != "" {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d] %s", statusCode, endpoint))
	} else {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d]", statusCode))
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func consoleLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset)
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file and prints a check mark line to the console.
func LogSuccess(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
	if ms := durationField(fields); ms > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, ms))
		return
	}
	consoleLogger.Info("✓ " + message)
}

// LogError writes to the file and prints a cross line to the console.
func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)
	if ms := durationField(fields); ms > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, ms))
		return
	}
	consoleLogger.Error("✗ " + message)
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func durationField(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

func endpointField(fields []zap.Field) string {
	for _, field := range fields {
		if field.Key == "endpoint" {
			return field.String
		}
	}
	return ""
}

// MaxLogFileSize is the size at which app.log is truncated.
const MaxLogFileSize = 50 * 1024 * 1024

type truncatingWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
}

func (w *truncatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := w.file.Stat(); err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		w.file = f
	}
	return w.file.Write(p)
}

func (w *truncatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func getLogFileWriter(path string) zapcore.WriteSyncer {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return zapcore.AddSync(os.Stderr)
	}
	return &truncatingWriter{file: file, path: path}
}

var bufferPool = buffer.NewPool()

// lineEncoder writes "time     LEVEL message\t{json fields}". Context fields
// added through With are kept in the embedded map and merged on every entry.
type lineEncoder struct {
	*zapcore.MapObjectEncoder
}

func newLineEncoder() *lineEncoder {
	return &lineEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	clone := newLineEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (e *lineEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferPool.Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	merged := e.Clone().(*lineEncoder)
	for _, field := range fields {
		field.AddTo(merged)
	}
	if len(merged.Fields) > 0 {
		if data, err := json.Marshal(merged.Fields); err == nil {
			buf.AppendString("\t")
			buf.Write(data)
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
