package middlewarex

import (
	"log/slog"
	"net/http"

	"at_deals/pkg/contextx"
	"at_deals/pkg/logx"
)

// Logger puts log into the request context, tagged with the trace id set by
// TraceID. Mount it after TraceID.
func Logger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := log

			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				l = l.With(slog.String(logx.FieldTraceID, traceID.String()))
			}

			l = l.With(
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.Path),
			)

			next.ServeHTTP(w, r.WithContext(contextx.WithLogger(ctx, l)))
		})
	}
}
