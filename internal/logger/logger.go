// Package logger provides structured logging for the deja application.
// It wraps the standard library's slog package behind a small interface
// with support for multiple log levels (debug, info, warn, error) and
// output formats (text, JSON). Logs go to stderr by default: stdout is
// reserved for the child command's replayed output.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// defaultLogger is the default logger instance used throughout the application.
var defaultLogger *slog.Logger

// Init initializes the logger with the specified level and format.
// If format is "json", logs will be in JSON format; otherwise, human-readable text.
// If output is nil, os.Stderr is used.
func Init(level string, format string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
}

// Logger returns the default logger instance, initializing it with
// defaults (info level, text format, stderr output) when Init has not
// been called. In tests, the logger should be initialized via init()
// functions in test files to avoid unwanted output.
func Logger() *slog.Logger {
	if defaultLogger == nil {
		Init("info", "text", nil)
	}
	return defaultLogger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given key-value pairs added to its
// context, useful for attaching operation names or file paths to a
// group of messages.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
