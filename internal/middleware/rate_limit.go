package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"bikerental/tracker/internal/metrics"
)

// limiterIdle is how long an IP's limiter survives without traffic.
const limiterIdle = 10 * time.Minute

// RateLimiter holds one token bucket per client IP. Buckets of idle clients
// expire from the cache.
type RateLimiter struct {
	limiters  *gocache.Cache
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	whitelist map[string]bool
	metrics   *metrics.MetricsRegistry
}

// NewRateLimiter allows rps requests per second per IP with the given burst.
// Loopback clients are never limited.
func NewRateLimiter(rps float64, burst int, metricsReg *metrics.MetricsRegistry) *RateLimiter {
	return &RateLimiter{
		limiters: gocache.New(limiterIdle, 2*limiterIdle),
		rps:      rate.Limit(rps),
		burst:    burst,
		whitelist: map[string]bool{
			"127.0.0.1": true,
			"::1":       true,
		},
		metrics: metricsReg,
	}
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(ip); found {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(ip, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters.SetDefault(ip, limiter)
	return limiter
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if l.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !l.getLimiter(ip).Allow() {
			if l.metrics != nil {
				l.metrics.HTTPRateLimited.Inc()
			}
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
