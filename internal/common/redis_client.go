package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"bikerental/tracker/internal/config"
	"bikerental/tracker/internal/logging"
)

// NewRedisClient connects to the Redis instance used for update locks.
func NewRedisClient(cfg config.LockConfig) *redis.Client {
	redisDB := 0 // Default DB

	logging.Info("Initializing Redis client", "addr", cfg.RedisAddr, "db", redisDB)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "addr", cfg.RedisAddr, "error", err.Error())
		return client // Still return the client, connection pool will try to reconnect
	}

	logging.Info("Connected to Redis", "addr", cfg.RedisAddr)
	return client
}
