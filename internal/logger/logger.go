// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Routes the default logger to a debug file so the TUI keeps the terminal.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects level, format and destination of the default logger
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)
	Path   string // log file; empty writes to stderr
}

// Init configures the default slog logger. The returned closer releases the
// log file and must be called on exit.
func Init(opts Options) (io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}

	slog.SetDefault(slog.New(NewHandler(w, opts.Level, opts.Format)))
	return closer, nil
}

// NewHandler builds a handler writing to w with the given level and format
func NewHandler(w io.Writer, level, format string) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
