package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/DermCareGo/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with
// correlation_id, subject, trace_id, and span_id, and stores it in context
// via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// Mount AFTER RequestLogging (which sets correlation_id) and Tracing
// (which sets the span context). Routes behind Auth get the subject too.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if subject := SubjectFromContext(ctx); subject != "" {
				ctx = logger.WithSubject(ctx, subject)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
