// Package log builds the structured loggers used across vimcore.
//
// Loggers are ordinary *slog.Logger values carried in session services.
// Each subsystem tags its records with a category attribute.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Category groups related log records.
type Category string

const (
	CatInput    Category = "input"    // key parsing and dispatch
	CatMotion   Category = "motion"   // motion and text object failures
	CatOperator Category = "operator" // operator application
	CatEx       Category = "ex"       // command-line parsing and execution
	CatRegister Category = "register" // register and clipboard traffic
	CatMacro    Category = "macro"    // recording and replay
	CatConfig   Category = "config"   // configuration loading and reload
	CatLua      Category = "lua"      // :lua evaluation
	CatSession  Category = "session"  // session snapshot and restore
)

// Discard is a logger that drops every record.
var Discard = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))

// ParseLevel converts "debug", "info", "warn" or "error".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none":
		return slog.Level(1000), nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open returns a logger for level writing to path, or to stderr when path
// is empty. The cleanup function closes the file.
func Open(path, level string) (*slog.Logger, func(), error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return New(os.Stderr, lvl), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(f, lvl), func() { _ = f.Close() }, nil
}

// For returns l tagged with category. A nil l yields Discard.
func For(l *slog.Logger, cat Category) *slog.Logger {
	if l == nil {
		l = Discard
	}
	return l.With("category", string(cat))
}
