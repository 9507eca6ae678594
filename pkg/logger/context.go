package logger

import (
	"context"
	"log/slog"
)

// unexported key type so other packages cannot collide with or replace the
// stored logger
type contextKey struct{}

// Attach stores a logger in the context. Later From calls on derived
// contexts return it instead of the process logger.
func Attach(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// With derives a context whose logger carries the extra fields on top of
// whatever logger the context already holds.
func With(ctx context.Context, fields ...any) context.Context {
	return Attach(ctx, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the process logger when
// none was attached.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return LoggerWrapper()
}
