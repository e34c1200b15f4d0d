// Package logging builds the slog loggers used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a slog.Logger for the given level and format ("text" or
// "json"). It does not set the global logger, allowing isolated instances.
// Unknown levels fall back to info and unknown formats to text.
func New(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(formatStr), "json") {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps debug/info/warn/error onto slog levels.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
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
