// Package logging provides structured logging for weaver on top of
// log/slog, behind a small interface so subsystems stay decoupled from
// the handler configuration.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents different log levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the structured logging interface used across weaver.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...any)
	Info(ctx context.Context, msg string, fields ...any)
	Warn(ctx context.Context, err error, msg string, fields ...any)
	Error(ctx context.Context, err error, msg string, fields ...any)

	With(fields ...any) Logger
	WithComponent(component string) Logger
}

// WeaverLogger implements Logger on top of slog.
type WeaverLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	fields    map[string]any
}

// Config holds logger configuration.
type Config struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stdout,
	}
}

// NewLogger creates a structured logger.
func NewLogger(config *Config) *WeaverLogger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     slogLevel(config.Level),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &WeaverLogger{
		logger:    slog.New(handler),
		level:     config.Level,
		component: config.Component,
		fields:    make(map[string]any),
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message.
func (l *WeaverLogger) Debug(ctx context.Context, msg string, fields ...any) {
	if l.level > LevelDebug {
		return
	}
	l.log(ctx, slog.LevelDebug, nil, msg, fields...)
}

// Info logs an info message.
func (l *WeaverLogger) Info(ctx context.Context, msg string, fields ...any) {
	if l.level > LevelInfo {
		return
	}
	l.log(ctx, slog.LevelInfo, nil, msg, fields...)
}

// Warn logs a warning message.
func (l *WeaverLogger) Warn(ctx context.Context, err error, msg string, fields ...any) {
	if l.level > LevelWarn {
		return
	}
	l.log(ctx, slog.LevelWarn, err, msg, fields...)
}

// Error logs an error message.
func (l *WeaverLogger) Error(ctx context.Context, err error, msg string, fields ...any) {
	l.log(ctx, slog.LevelError, err, msg, fields...)
}

// With creates a new logger with additional persistent fields.
func (l *WeaverLogger) With(fields ...any) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields)/2)
	for k, v := range l.fields {
		newFields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			newFields[key] = fields[i+1]
		}
	}
	return &WeaverLogger{
		logger:    l.logger,
		level:     l.level,
		component: l.component,
		fields:    newFields,
	}
}

// WithComponent creates a new logger scoped to a component.
func (l *WeaverLogger) WithComponent(component string) Logger {
	return &WeaverLogger{
		logger:    l.logger,
		level:     l.level,
		component: component,
		fields:    l.fields,
	}
}

func (l *WeaverLogger) log(ctx context.Context, level slog.Level, err error, msg string, fields ...any) {
	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields)/2+2)

	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range l.fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			attrs = append(attrs, slog.Any(key, fields[i+1]))
		}
	}

	record := slog.NewRecord(time.Now(), level, msg, 0)
	record.AddAttrs(attrs...)
	l.logger.Handler().Handle(ctx, record)
}

// NopLogger discards everything. Used as the default where no logger
// is injected.
type NopLogger struct{}

func (NopLogger) Debug(context.Context, string, ...any)        {}
func (NopLogger) Info(context.Context, string, ...any)         {}
func (NopLogger) Warn(context.Context, error, string, ...any)  {}
func (NopLogger) Error(context.Context, error, string, ...any) {}
func (n NopLogger) With(...any) Logger                         { return n }
func (n NopLogger) WithComponent(string) Logger                { return n }
