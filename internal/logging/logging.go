package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Key constants for structured log fields.
const (
	KeyRunID      = "runId"
	KeyComponent  = "component"
	KeyURL        = "url"
	KeyTitle      = "title"
	KeyIndex      = "index"
	KeyDurationMs = "durationMs"
	KeyError      = "error"
	KeyErrorType  = "errorType"
	KeyPath       = "path"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

type contextKey struct{}

// root is the logger every component logger derives from. Loggers taken
// with L before Init keep the handler that was current at that time.
var root atomic.Pointer[slog.Logger]

func init() {
	// Logs go to stderr so that stdout only carries the progress line and summary.
	root.Store(newLogger(FormatText, "warn", os.Stderr))
	slog.SetDefault(root.Load())
}

// Init replaces the root logger. Call once after config is loaded.
// format: "json" or "text" (default "text")
// level: "debug", "info", "warn", "error" (default "info")
// output: writer to log to (nil = os.Stderr)
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}
	logger := newLogger(format, level, output)
	root.Store(logger)
	slog.SetDefault(logger)
}

func newLogger(format, level string, output io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return root.Load().With(slog.String(KeyComponent, component))
}

// WithRun returns a child logger with the run correlation field attached.
func WithRun(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With(slog.String(KeyRunID, runID))
}

// NewContext returns a new context carrying the given logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger from context, falling back to the root logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return root.Load()
}

// ValidLevel reports whether s names a supported level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ValidFormat reports whether s names a supported output format.
func ValidFormat(s string) bool {
	return strings.EqualFold(s, FormatText) || strings.EqualFold(s, FormatJSON)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
