package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is the private context key for request-scoped loggers.
type loggerContextKey struct{}

// WithLogger returns a context carrying the given logger. Middleware attaches
// a request-scoped logger (with trace ID) so lower layers log with request
// correlation attributes without threading loggers through every call.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger carried by the context, or slog.Default()
// when none is attached.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger carried by the context, or the
// given fallback when none is attached.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
