package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"bikerental/tracker/internal/api"
	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/middleware"
)

func RegisterRoutes(deps *api.Dependencies, metricsReg *metrics.MetricsRegistry, httpCfg config.HTTPConfig, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logging(logging.Named("http")))
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   httpCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Sheets, upSince))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(httpCfg.RateLimitRPS, httpCfg.RateLimitBurst, metricsReg)

	RegisterAPIRoutes(r, handlers, limiter)

	return r
}
