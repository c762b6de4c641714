package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OutputType defines where log entries are written
type OutputType string

const (
	// OutputConsole writes to stdout
	OutputConsole OutputType = "console"
	// OutputFile writes to a rotating file
	OutputFile OutputType = "file"
	// OutputBoth writes to stdout and a rotating file
	OutputBoth OutputType = "both"
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string

	// Output selects the sinks (console, file, both)
	Output OutputType

	// Format is json or console
	Format string

	// FilePath is the log file used by the file and both outputs
	FilePath string

	// FileMaxSizeMB rotates the file once it grows past this size
	FileMaxSizeMB int

	// FileMaxBackups is the number of rotated files to keep
	FileMaxBackups int

	// FileMaxAgeDays drops rotated files older than this
	FileMaxAgeDays int

	// Development switches to colored console output with warn-level stacktraces
	Development bool

	AddCaller  bool
	CallerSkip int
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:          "info",
		Output:         OutputConsole,
		Format:         "json",
		FilePath:       "./logs/folio.log",
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
		AddCaller:      true,
		CallerSkip:     1,
	}
}

// Logger wraps zap.Logger with the sinks it owns
type Logger struct {
	*zap.Logger
	sugar   *zap.SugaredLogger
	config  *Config
	core    zapcore.Core
	closers []io.Closer
	mu      sync.Mutex
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// New creates a Logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	core, closers, err := BuildCore(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithCore(cfg, core, closers...), nil
}

// BuildCore creates the local (non-OTEL) core for cfg along with the writers it opened.
func BuildCore(cfg *Config) (zapcore.Core, []io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := createEncoderConfig(cfg.Development)

	switch cfg.Output {
	case OutputFile:
		core, w := createFileCore(cfg, level, encoderConfig)
		return core, []io.Closer{w}, nil
	case OutputBoth:
		fileCore, w := createFileCore(cfg, level, encoderConfig)
		return zapcore.NewTee(createConsoleCore(cfg, level, encoderConfig), fileCore), []io.Closer{w}, nil
	default:
		return createConsoleCore(cfg, level, encoderConfig), nil, nil
	}
}

// NewWithCore creates a Logger around a prepared core, e.g. a tee with an OTEL core.
func NewWithCore(cfg *Config, core zapcore.Core, closers ...io.Closer) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	zapLogger := zap.New(core, buildZapOptions(cfg)...)

	return &Logger{
		Logger:  zapLogger,
		sugar:   zapLogger.Sugar(),
		config:  cfg,
		core:    core,
		closers: closers,
	}
}

// Init initializes the global logger with the provided configuration
func Init(cfg *Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}

	SetGlobal(l)
	return nil
}

// SetGlobal sets the global logger instance
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Get returns the global logger, creating a default console logger on first use.
func Get() *Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		l, _ := New(DefaultConfig())
		globalLogger = l
	}

	return globalLogger
}

// NewNop returns a Logger that discards everything. Used by tests.
func NewNop() *Logger {
	return NewWithCore(DefaultConfig(), zapcore.NewNopCore())
}

// Sugar returns the sugared logger
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// Core returns the underlying zapcore.Core
func (l *Logger) Core() zapcore.Core {
	return l.core
}

// WithContext returns a logger carrying the trace and span ids found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return l
	}

	return l.WithFields(
		TraceID(span.SpanContext().TraceID().String()),
		SpanID(span.SpanContext().SpanID().String()),
	)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields ...zap.Field) *Logger {
	newLogger := l.With(fields...)
	return &Logger{
		Logger:  newLogger,
		sugar:   newLogger.Sugar(),
		config:  l.config,
		core:    l.core,
		closers: l.closers,
	}
}

// WithError returns a logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields(zap.Error(err))
}

// Close flushes buffered entries and closes the sinks the logger owns
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.Logger.Sync()

	var lastErr error
	for _, closer := range l.closers {
		if err := closer.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// ParseLevel converts a string level to zapcore.Level
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

func createEncoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.TimeKey = "timestamp"
	config.MessageKey = "message"
	return config
}

func newEncoder(cfg *Config, encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	if cfg.Format == "console" || cfg.Development {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func createConsoleCore(cfg *Config, level zapcore.Level, encoderConfig zapcore.EncoderConfig) zapcore.Core {
	return zapcore.NewCore(newEncoder(cfg, encoderConfig), zapcore.AddSync(os.Stdout), level)
}

// createFileCore never touches the disk; the file is opened on first write.
func createFileCore(cfg *Config, level zapcore.Level, encoderConfig zapcore.EncoderConfig) (zapcore.Core, *rotatingFile) {
	w := &rotatingFile{
		path:       cfg.FilePath,
		maxSizeMB:  cfg.FileMaxSizeMB,
		maxBackups: cfg.FileMaxBackups,
		maxAgeDays: cfg.FileMaxAgeDays,
	}

	// File output is never colored
	fileEncoderConfig := encoderConfig
	fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(fileEncoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(fileEncoderConfig)
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(w), level), w
}

func buildZapOptions(cfg *Config) []zap.Option {
	var opts []zap.Option

	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller())
		if cfg.CallerSkip > 0 {
			opts = append(opts, zap.AddCallerSkip(cfg.CallerSkip))
		}
	}

	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return opts
}

// Global helper functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Errorf logs an error message using the global logger
func Errorf(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

// With returns a logger with additional fields using the global logger
func With(fields ...zap.Field) *Logger {
	return Get().WithFields(fields...)
}

// WithContext returns a logger with trace context using the global logger
func WithContext(ctx context.Context) *Logger {
	return Get().WithContext(ctx)
}

// WithErr returns a logger with an error field using the global logger
func WithErr(err error) *Logger {
	return Get().WithError(err)
}

// SyncGlobal flushes any buffered log entries from the global logger
func SyncGlobal() error {
	return Get().Sync()
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
