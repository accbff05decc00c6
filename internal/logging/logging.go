// Package logging builds the slog loggers used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a logger writing to w at level. format "json" selects the
// JSON handler; anything else selects the text handler.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard creates a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity maps CLI verbosity flags to a level: quiet silences
// everything, 0 keeps the configured level, 1 is info and 2 or more is
// debug.
func LevelFromVerbosity(configured slog.Level, verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.Level(100)
	case verbosity <= 0:
		return configured
	case verbosity == 1:
		return min(configured, slog.LevelInfo)
	default:
		return slog.LevelDebug
	}
}
