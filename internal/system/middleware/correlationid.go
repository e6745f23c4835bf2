package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jamfest/guardian-consent/internal/system/constants"
)

type contextKey string

// CorrelationIDContextKey is the context key under which the request
// correlation ID is stored.
const CorrelationIDContextKey contextKey = "correlation_id"

// WrapWithCorrelationID wraps an http.Handler with correlation ID middleware
func WrapWithCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := extractCorrelationID(r)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		w.Header().Set(constants.CorrelationIDHeaderName, correlationID)

		ctx := context.WithValue(r.Context(), CorrelationIDContextKey, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CorrelationID returns the correlation ID stored in the context, if any.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDContextKey).(string); ok {
		return id
	}
	return ""
}

func extractCorrelationID(r *http.Request) string {
	headers := []string{constants.CorrelationIDHeaderName, "X-Request-ID", "X-Trace-ID"}
	for _, header := range headers {
		if id := r.Header.Get(header); id != "" {
			return id
		}
	}
	return ""
}
