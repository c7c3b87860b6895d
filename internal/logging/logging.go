// Package logging builds the slog loggers used by hooks and the CLI.
//
// Hooks own stderr for verdict text, so hook logs only go to a file and are
// discarded when no file is configured.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DebugEnv forces debug level when set to a true value.
const DebugEnv = "HOOKGUARD_DEBUG"

// FilePermission is the permission for the log file (owner read/write only)
const FilePermission = 0600

// Options selects where and how much to log.
type Options struct {
	Enabled bool
	Level   string
	File    string
}

// ParseLevel maps a config level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
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

// effectiveLevel applies the DebugEnv override.
func effectiveLevel(level string) slog.Level {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "yes":
		return slog.LevelDebug
	}
	return ParseLevel(level)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// New returns a text logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: effectiveLevel(level)}))
}

// Open builds a hook logger from opts. The returned close function is never
// nil. When logging is disabled, or the file has no usable location, the
// logger discards.
func Open(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled || opts.File == "" {
		return Discard(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
		return Discard(), noop, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FilePermission)
	if err != nil {
		return Discard(), noop, fmt.Errorf("open log file: %w", err)
	}

	return New(f, opts.Level), f.Close, nil
}
