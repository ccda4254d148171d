// Package logging configures structured logging for the server.
//
// Usage:
//
//	logging.Setup("info", "text")   // colored tint output on stderr
//	logging.Setup("debug", "json")  // JSON lines on stdout
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger for the given level and format.
// Unknown levels fall back to info; any format other than "json" uses tint.
func Setup(level, format string) {
	slog.SetDefault(New(os.Stderr, os.Stdout, ParseLevel(level), format))
}

// New builds a logger. Text output goes to textOut, JSON output to jsonOut.
func New(textOut, jsonOut io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(
		tint.NewHandler(textOut, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	)
}

// ParseLevel maps debug, warn and error to their slog levels; anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
