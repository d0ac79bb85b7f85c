// Package logging configures the leveled slog logger used across leapointer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is one of the four supported logging levels.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelDebug   Level = "debug"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = LevelInfo

// ordered runs from least to most verbose.
var ordered = []Level{LevelError, LevelWarning, LevelInfo, LevelDebug}

// ParseLevel converts a string to a Level. "warn" is accepted for warning.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be error, warning, info, or debug)", s)
	}
}

// Threshold moves base by steps along error, warning, info, debug.
// Positive steps are more verbose; the result is clamped to the ends.
func Threshold(base Level, steps int) Level {
	idx := 2
	for i, l := range ordered {
		if l == base {
			idx = i
		}
	}
	idx += steps
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ordered) {
		idx = len(ordered) - 1
	}
	return ordered[idx]
}

// Slog maps l to the slog level.
func (l Level) Slog() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New creates a text logger writing to w at the given level.
func New(w io.Writer, level Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level.Slog(),
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup builds the process logger on stderr from a configured base level
// and the -v/-q counts, and installs it as the slog default.
func Setup(base string, verbose, quiet int) (*slog.Logger, error) {
	lvl, err := ParseLevel(base)
	if err != nil {
		return nil, err
	}
	logger := New(os.Stderr, Threshold(lvl, verbose-quiet))
	slog.SetDefault(logger)
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
