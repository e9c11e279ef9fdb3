package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	reqctx "bikerental/tracker/internal/context"
	"bikerental/tracker/internal/metrics"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqctx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36, "generated ids are UUIDs")
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestLogging_WritesOneLinePerRequest(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(Logging(zap.New(core).Sugar()))
	r.Get("/api/v1/bikes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/42", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := recorded.FilterMessage("HTTP request completed").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "/api/v1/bikes/{id}", first["endpoint"])
	assert.Equal(t, int64(http.StatusNotFound), first["status_code"])
	assert.Equal(t, int64(4), first["bytes"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Get("/api/v1/bikes/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bikes/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/v1/bikes/{id}", "GET", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight.WithLabelValues("/api/v1/bikes/{id}")))
}

func TestRateLimiter_LimitsPerIP(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	limiter := NewRateLimiter(0.001, 2, m)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"), "other clients keep their own bucket")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRateLimited))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send("127.0.0.1:9000"), "loopback is never limited")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v1/bikes/{id}/toggle", NormalizeEndpoint("/api/v1/bikes/17/toggle"))
	assert.Equal(t, "/api/v1/bikes/count", NormalizeEndpoint("/api/v1/bikes/count"))
	assert.Equal(t, "/x/{id}", NormalizeEndpoint("/x/123e4567-e89b-12d3-a456-426614174000"))
}
