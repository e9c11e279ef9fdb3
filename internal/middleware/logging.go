package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	reqctx "bikerental/tracker/internal/context"
)

type respLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

// Logging writes one structured line per completed request. Server errors
// log at error level, everything else at info.
func Logging(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lw := &respLogger{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(lw, r)
			dur := time.Since(start)

			fields := []interface{}{
				"request_id", reqctx.GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"endpoint", routePattern(r),
				"status_code", lw.status,
				"bytes", lw.bytes,
				"duration_ms", dur.Milliseconds(),
				"remote_ip", clientIP(r),
			}
			if lw.status >= http.StatusInternalServerError {
				logger.Errorw("HTTP request completed", fields...)
				return
			}
			logger.Infow("HTTP request completed", fields...)
		})
	}
}

// routePattern is the matched chi pattern, available once routing is done.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return NormalizeEndpoint(r.URL.Path)
}
