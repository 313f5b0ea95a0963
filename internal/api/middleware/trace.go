// Package middleware contains HTTP middleware specific to this API. Generic
// middleware comes from chi.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that assigns every request a trace ID
// and stores a logger tagged with it in the request context. It should run
// before any handler that logs.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
