// Package logging defines the context-aware structured logger used across the
// server and the CLI, with slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// New builds a logger writing to stdout. format is "zap", "text" or "json"
// (the default).
func New(format string) (Logger, error) {
	return NewWithWriter(format, os.Stdout)
}

// NewWithWriter is New with an explicit destination for the slog formats.
// The zap backend always uses its production config.
func NewWithWriter(format string, w io.Writer) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "zap":
		return NewZapProduction()
	case "text":
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, nil))), nil
	case "", "json":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil))), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// redacted is what a secret-bearing value is replaced with.
const redacted = "[REDACTED]"

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range []string{"password", "apikey", "api_key", "secret", "token", "authorization"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// sanitize masks values whose key names a credential.
func sanitize(args []any) []any {
	if len(args) < 2 {
		return args
	}
	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		if k, ok := out[i].(string); ok && isSecretKey(k) {
			out[i+1] = redacted
		}
	}
	return out
}
