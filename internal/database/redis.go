package database

import (
	"context"
	"time"

	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when no address is configured. A failed ping is only
// logged; go-redis reconnects on its own.
func NewRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("Redis not configured, real-time fan-out stays in-process")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
	} else {
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis successfully")
	}
	return client
}
