// Package obslog wraps log/slog the way pkg/observability/logger.go wraps
// it, minus the OpenTelemetry trace-context injection: a one-shot batch CLI
// has no span to join, so ServiceHandler only pins service metadata onto
// every record.
package obslog

import (
	"context"
	"log/slog"
	"os"
)

const (
	attrService = "service"
	attrMode    = "mode"
)

// ServiceHandler is an slog.Handler decorator that pre-attaches service
// metadata, the load-bearing half of the teacher's TracingHandler with the
// trace-context half removed (see DESIGN.md).
type ServiceHandler struct {
	inner slog.Handler
}

// NewServiceHandler wraps inner, pre-attaching service and mode attributes
// so they appear at the top level of every record regardless of later
// WithGroup calls.
func NewServiceHandler(inner slog.Handler, service, mode string) *ServiceHandler {
	return &ServiceHandler{
		inner: inner.WithAttrs([]slog.Attr{
			slog.String(attrService, service),
			slog.String(attrMode, mode),
		}),
	}
}

func (h *ServiceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ServiceHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.inner.Handle(ctx, record)
}

func (h *ServiceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ServiceHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ServiceHandler) WithGroup(name string) slog.Handler {
	return &ServiceHandler{inner: h.inner.WithGroup(name)}
}

// New builds the default process logger: text handler to stderr at the
// given level, wrapped in ServiceHandler.
func New(level slog.Level, mode string) *slog.Logger {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	return slog.New(NewServiceHandler(base, "hipify", mode))
}

// ParseLevel maps the config/flag level string onto an slog.Level,
// defaulting to Info on an unrecognized value.
func ParseLevel(s string) slog.Level {
	switch s {
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
