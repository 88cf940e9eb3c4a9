package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger: text or json output on stderr,
// filtered at the given minimum level.
func New(format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(NewContextHandler(handler))
}

// ParseLevel converts a verbosity argument to a slog level. Accepted
// values are error, warn, info, debug (case insensitive) or 0-3 in
// ascending verbosity (0 = error, 3 = debug).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "error", "0":
		return slog.LevelError, nil
	case "warn", "1":
		return slog.LevelWarn, nil
	case "info", "2":
		return slog.LevelInfo, nil
	case "debug", "3":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("invalid log level %q", s)
}

type contextKey string

const attrKey contextKey = "attrKey"

// ContextHandler implements [slog.Handler] interface and adds to the log
// record any attributes passed into the context with the [attrKey].
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler creates a new instance of ContextHandler
// with `handler` as the base.
func NewContextHandler(handler slog.Handler) ContextHandler {
	return ContextHandler{Handler: handler}
}

// Handle implements [slog.Handler] interface.
func (h ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs, ok := ctx.Value(attrKey).([]slog.Attr)
	if !ok {
		return h.Handler.Handle(ctx, record)
	}

	// Add anything we got from the context to the current record.
	record.AddAttrs(attrs...)

	// Relinquish to the base handler.
	return h.Handler.Handle(ctx, record)
}

// Ctx creates a new context with the attached attributes.
//
// These will get logged later by the [ContextHandler] if given the resulting context.
func Ctx(ctx context.Context, toAppend ...slog.Attr) context.Context {
	attrs, ok := ctx.Value(attrKey).([]slog.Attr)
	if !ok {
		attrs = []slog.Attr{}
	}

	attrs = append(attrs, toAppend...)
	return context.WithValue(ctx, attrKey, attrs)
}
