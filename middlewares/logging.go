package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/logger"
)

// RequestIDExtractor adds "request_id" to log entries of requests tagged by RequestID.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}

// ViewExtractor adds "view" (app.module.name) to log entries once the view is resolved.
func ViewExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(internal.ViewKey{}).(*internal.ResolvedView); ok && v != nil {
			return slog.String("view", v.String()), true
		}
		return slog.Attr{}, false
	}
}

// UserExtractor adds "user" to log entries of authenticated requests.
func UserExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(internal.RemoteUserKey{}).(string); ok && v != "" {
			return slog.String("user", v), true
		}
		return slog.Attr{}, false
	}
}
