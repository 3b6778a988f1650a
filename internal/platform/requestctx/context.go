// Package requestctx carries per-request values, currently the request-scoped logger.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

var loggerContextKey contextKey

var noopLogger = zap.NewNop()

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Logger retrieves the request logger, or a no-op logger when none was injected.
func Logger(ctx context.Context) *zap.Logger {
	return LoggerOr(ctx, nil)
}

// LoggerOr returns the request logger when one was injected, otherwise fallback.
func LoggerOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback == nil {
		return noopLogger
	}
	return fallback
}
