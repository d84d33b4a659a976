// Package log provides structured logging for netpay. It wraps Go's log/slog
// with per-module child loggers and builds its handlers on go-ethereum's
// terminal and JSON formatters so output matches the rest of the Ethereum
// tooling an operator is likely running next to it.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// LevelTrace is the most verbose level, below slog.LevelDebug.
const LevelTrace = gethlog.LevelTrace

// ErrUnknownFormat is returned for a log format other than "terminal",
// "text" or "json".
var ErrUnknownFormat = errors.New("log: unknown format")

// Logger wraps slog.Logger with netpay-specific context.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes terminal-formatted lines to stderr at the
// given level.
func New(level slog.Level) *Logger {
	return NewWithHandler(gethlog.NewTerminalHandlerWithLevel(os.Stderr, level, false))
}

// NewWithFormat creates a Logger writing to w in the named format. "terminal"
// and "text" select the human readable handler, "json" one JSON object per
// line.
func NewWithFormat(w io.Writer, level slog.Level, format string) (*Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "terminal", "text":
		return NewWithHandler(gethlog.NewTerminalHandlerWithLevel(w, level, false)), nil
	case "json":
		return NewWithHandler(gethlog.JSONHandlerWithLevel(w, level)), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler. This
// is useful for testing or for writing to a custom destination.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWithHandler(gethlog.DiscardHandler())
}

// FromVerbosity maps a geth-style verbosity (0=silent .. 5=trace) to a slog
// level. Out of range values are clamped.
func FromVerbosity(v int) slog.Level {
	if v < 0 {
		v = 0
	}
	if v > 5 {
		v = 5
	}
	return gethlog.FromLegacyLevel(v)
}

// ParseLevel parses a level name such as "info" or "trace".
func ParseLevel(s string) (slog.Level, error) {
	return gethlog.LvlFromString(strings.ToLower(strings.TrimSpace(s)))
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger with an additional "module" attribute. This
// is how subsystems (generator, verifier, cli) obtain their own logger.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// Enabled reports whether records at level would be emitted.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

// Trace logs at LevelTrace.
func (l *Logger) Trace(msg string, args ...any) {
	l.inner.Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// ---------------------------------------------------------------------------
// Package-level convenience functions -- delegate to defaultLogger.
// ---------------------------------------------------------------------------

// Debug logs at LevelDebug using the default logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at LevelInfo using the default logger.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at LevelWarn using the default logger.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at LevelError using the default logger.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
