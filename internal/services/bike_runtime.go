// Package services assembles the bike store from configuration. The HTTP
// server and bikectl share it.
package services

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"bikerental/tracker/internal/common"
	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/credentials"
	"bikerental/tracker/internal/locking"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/retry"
	"bikerental/tracker/internal/sheets"
	"bikerental/tracker/internal/store"
)

// BikeRuntime owns the store and the resources behind it.
type BikeRuntime struct {
	Store   *store.BikeStore
	Factory *sheets.Factory
	Locker  locking.Locker

	redis *redis.Client
}

// NewBikeRuntime wires credentials, the lazy sheet client, the optional
// update locker and the store. Nothing touches the network except the Redis
// ping when the redis lock backend is selected. metricsReg may be nil.
func NewBikeRuntime(cfg config.Config, metricsReg *metrics.MetricsRegistry) (*BikeRuntime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &BikeRuntime{}

	loader := credentials.NewLoader(cfg.Sheets.CredentialsFile)
	rt.Factory = sheets.NewFactory(sheets.FactoryConfig{
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		CallTimeout:   cfg.Sheets.CallTimeout,
	}, loader, sheets.WithFactoryLogger(logging.Named("sheets")))

	switch cfg.Lock.Backend {
	case config.LockBackendLocal:
		rt.Locker = locking.NewLocalLocker()
	case config.LockBackendRedis:
		rt.redis = common.NewRedisClient(cfg.Lock)
		rt.Locker = locking.NewRedisLocker(rt.redis, cfg.Lock.TTL)
	}

	layout := store.Layout{BikesSheet: cfg.Sheets.BikesSheet, LogsSheet: cfg.Sheets.LogsSheet}
	storeLogger := logging.Named("store")

	auditor := store.NewAuditLogger(rt.Factory, layout.LogsSheet,
		store.WithLocation(cfg.Sheets.Location()),
		store.WithAuditLogging(storeLogger.Named("audit")),
		store.WithAuditMetrics(metricsReg),
	)

	opts := []store.Option{
		store.WithLayout(layout),
		store.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		}),
		store.WithAuditor(auditor),
		store.WithLogger(storeLogger),
		store.WithMetrics(metricsReg),
	}
	if rt.Locker != nil {
		opts = append(opts, store.WithConditionalWrites(rt.Locker))
	}
	rt.Store = store.NewBikeStore(rt.Factory, opts...)

	logging.Info("Bike store initialized",
		"spreadsheet_configured", cfg.Sheets.SpreadsheetID != "",
		"bikes_sheet", layout.BikesSheet,
		"logs_sheet", layout.LogsSheet,
		"lock_backend", cfg.Lock.Backend,
		"retry_max_attempts", cfg.Retry.MaxAttempts,
	)
	return rt, nil
}

// Close releases the Redis connection pool when one was opened.
func (rt *BikeRuntime) Close() error {
	if rt.redis != nil {
		return rt.redis.Close()
	}
	return nil
}
