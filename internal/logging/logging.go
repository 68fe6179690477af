package logging

import (
	"context"
	"log/slog"
)

// loggerKey is the private key under which a request-scoped logger rides the
// context.
type loggerKey struct{}

// ContextWithLogger stashes logger in the context so downstream code logs
// with the request's attributes attached. Nil inputs leave ctx untouched.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stashed in ctx, or nil when none rides it.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	return logger
}

// FromContextOrDefault resolves the effective logger: the context-scoped one
// when present, then the supplied fallback, then slog.Default.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
