package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikerental/tracker/internal/api"
	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/models/dtos/responses"
	"bikerental/tracker/internal/store"
)

type countingBikes struct{ calls int }

func (c *countingBikes) ListAll(context.Context) responses.Result[models.BikeListing] {
	c.calls++
	return responses.Ok(models.BikeListing{Bikes: []models.Bike{{ID: 1, Status: models.StatusInactive, Brand: "Trek"}}})
}

func (c *countingBikes) GetByID(context.Context, int) responses.Result[*models.Bike] {
	c.calls++
	return responses.Ok[*models.Bike](nil)
}

func (c *countingBikes) Count(context.Context) responses.Result[int] {
	c.calls++
	return responses.Ok(1)
}

func (c *countingBikes) Toggle(_ context.Context, req store.ToggleRequest) responses.Result[models.Transition] {
	c.calls++
	return responses.Ok(models.Transition{BikeID: req.ID})
}

func (c *countingBikes) SetStatus(_ context.Context, id int, _ string, _ string) responses.Result[models.Transition] {
	c.calls++
	return responses.Ok(models.Transition{BikeID: id})
}

type readySheets struct{}

func (readySheets) Ready() bool           { return true }
func (readySheets) SpreadsheetID() string { return "sheet" }

func newTestHandler(t *testing.T, bikes *countingBikes, burst int) http.Handler {
	t.Helper()
	deps, err := api.InitDependencies(bikes, readySheets{})
	require.NoError(t, err)
	cfg := config.HTTPConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   0.001,
		RateLimitBurst: burst,
	}
	return RegisterRoutes(deps, metrics.NewMetricsRegistry(prometheus.NewRegistry()), cfg, time.Now())
}

func TestRegisterRoutes_BikeEndpoints(t *testing.T) {
	bikes := &countingBikes{}
	handler := newTestHandler(t, bikes, 100)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthCheck", http.StatusOK},
		{http.MethodGet, "/api/v1/bikes", http.StatusOK},
		{http.MethodGet, "/api/v1/bikes/count", http.StatusOK},
		{http.MethodGet, "/api/v1/bikes/1", http.StatusNotFound},
		{http.MethodPost, "/api/v1/bikes/1/toggle", http.StatusOK},
		{http.MethodDelete, "/api/v1/bikes/1", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "10.1.1.1:4000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, tt.want, rr.Code, "%s %s", tt.method, tt.path)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"), "%s %s", tt.method, tt.path)
	}
	assert.Equal(t, 4, bikes.calls)
}

func TestRegisterRoutes_CORSPreflight(t *testing.T) {
	handler := newTestHandler(t, &countingBikes{}, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bikes/1/toggle", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterRoutes_RateLimitsAPIButNotHealth(t *testing.T) {
	bikes := &countingBikes{}
	handler := newTestHandler(t, bikes, 1)

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.2.2.2:4000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("/api/v1/bikes/count"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/v1/bikes/count"))
	assert.Equal(t, http.StatusOK, send("/healthCheck"))
	assert.Equal(t, 1, bikes.calls)
}
