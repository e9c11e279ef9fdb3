package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bikerental/tracker/internal/api"
	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/routes"
	"bikerental/tracker/internal/services"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()
	for _, w := range cfg.Warnings {
		logging.Warn("Configuration value ignored", "detail", w)
	}

	logging.Info("Bike tracker starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	runtime, err := services.NewBikeRuntime(cfg, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize bike store", "error", err.Error())
	}
	defer runtime.Close()

	deps, err := api.InitDependencies(runtime.Store, runtime.Factory)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, metricsReg, cfg.HTTP, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
