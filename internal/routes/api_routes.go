package routes

import (
	"github.com/go-chi/chi/v5"

	"bikerental/tracker/internal/api"
	"bikerental/tracker/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, limiter *middleware.RateLimiter) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)

		v1.Route("/bikes", func(bikes chi.Router) {
			bikes.Get("/", handlers.ListBikes())
			bikes.Get("/count", handlers.CountBikes())
			bikes.Get("/{id}", handlers.GetBike())

			// Writes
			bikes.Post("/{id}/toggle", handlers.ToggleBike())
			bikes.Put("/{id}/status", handlers.SetBikeStatus())
		})
	})
}
