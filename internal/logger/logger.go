// Package logger holds the process-wide structured logger.
// Core packages log through it; the CLI configures it once from flags.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	active = newLogger(os.Stderr, slog.LevelWarn, false)
)

// Options configures the logger.
type Options struct {
	Debug  bool      // debug level
	Quiet  bool      // errors only, wins over Debug
	JSON   bool      // JSON lines instead of key=value text
	Output io.Writer // default: stderr
}

// level maps the flags to a slog level. Info is the default.
func (o Options) level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Init replaces the process-wide logger.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l := newLogger(out, opts.level(), opts.JSON)

	mu.Lock()
	active = l
	mu.Unlock()
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// DebugContext logs at debug level with ctx.
func DebugContext(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}
