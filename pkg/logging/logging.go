// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	level, _ := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
//	format, _ := logging.ParseFormat(os.Getenv("LOG_FORMAT"))
//	logging.Configure(os.Stderr, level, format)
//
// Levels: debug, info, warn, error (default: info).
// Formats: tint, json (default: tint).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the log handler.
type Format string

const (
	// FormatTint is colored, human-readable console output.
	FormatTint Format = "tint"
	// FormatJSON is one JSON object per line, for log shippers.
	FormatJSON Format = "json"
)

// Configure installs a default slog logger writing to w.
func Configure(w io.Writer, level slog.Level, format Format) {
	slog.SetDefault(slog.New(NewHandler(w, level, format)))
}

// NewHandler builds the slog.Handler for format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	if format == FormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn or error to a slog level.
// The empty string is info.
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
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level '%s'", s)
	}
}

// ParseFormat maps tint or json to a Format. The empty string is tint.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTint:
		return FormatTint, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatTint, fmt.Errorf("unknown log format '%s'", s)
	}
}
