package middleware

import (
	"net/http"

	"github.com/google/uuid"

	reqctx "bikerental/tracker/internal/context"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware adds a request ID to the context if not present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(reqctx.SetRequestID(r.Context(), requestID)))
	})
}
