// Package logging builds the process logger.
//
// Development uses tint's colored handler; production emits JSON lines.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps debug, info, warn and error to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func New(w io.Writer, level slog.Level, jsonOutput bool) *slog.Logger {
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	}))
}

// Setup installs New's logger as the slog default and returns it.
func Setup(w io.Writer, level string, jsonOutput bool) *slog.Logger {
	logger := New(w, ParseLevel(level), jsonOutput)
	slog.SetDefault(logger)
	return logger
}

// Err is the attribute used for errors across the service.
func Err(err error) slog.Attr {
	return tint.Err(err)
}
