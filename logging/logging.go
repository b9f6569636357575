package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

var activeWriter *RotatingWriter

// ParseLevel converts a LOG_LEVEL string to a slog.Level, defaulting to
// info for unknown values.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger wires the process-wide logger: text on stdout plus JSON into
// weekly rotating files under logDir. Falls back to console-only logging if
// the directory cannot be created.
func InitLogger(logDir, level string, retentionWeeks int, maxFileSize int64) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	console := slog.NewTextHandler(os.Stdout, opts)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create log directory, console logging only", "error", err, "dir", logDir)
		setDefault(logger)
		return
	}

	activeWriter = NewRotatingWriter(logDir, retentionWeeks, maxFileSize)
	file := slog.NewJSONHandler(activeWriter, opts)
	setDefault(slog.New(newTeeHandler(console, file)))
}

// Shutdown flushes and closes the rotating file writer.
func Shutdown() {
	if activeWriter != nil {
		_ = activeWriter.Close()
		activeWriter = nil
	}
}

func setDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}

// Logger returns the process logger, falling back to a plain console logger
// before InitLogger has run (early startup, tests).
func Logger() *slog.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// Package-level helpers so call sites stay short.

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// teeHandler fans a record out to every underlying handler.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) *teeHandler {
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
