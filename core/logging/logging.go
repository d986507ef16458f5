// Package logging builds the slog logger used by the CLI and the server,
// and holds the canonical log field names.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Canonical log field names.
const (
	KeySource    = "source"
	KeyFormat    = "format"
	KeyCount     = "count"
	KeyPath      = "path"
	KeyAddr      = "addr"
	KeyStatus    = "status"
	KeyRequestID = "request_id"
	KeyMethod    = "method"
	KeyRoute     = "route"
	KeyDuration  = "duration_ms"
	KeyError     = "error"
)

// Source returns the source attribute.
func Source(s string) slog.Attr { return slog.String(KeySource, s) }

// Count returns the recipe count attribute.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Error returns the error attribute; nil errors log as "".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// ParseLevel maps a level name to slog.Level. Unknown names mean info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// New builds a logger writing text or JSON ("json") records to w.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
