// Package logger provides structured logging for Vitalis.
//
// It wraps the standard library log/slog to provide structured logging
// with automatic redaction of sensitive fields. Anything that looks like
// a credential (bearer tokens, passwords, OTP codes) is masked before it
// reaches the output stream.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output is the output writer (defaults to os.Stderr).
	Output io.Writer
}

// DefaultConfig returns the default CLI logger configuration: text format
// at warn level, so normal command output stays clean.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "text",
		Output: os.Stderr,
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// parseLevel converts a level string to slog.Level. Unknown values fall
// back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
