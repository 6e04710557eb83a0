package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"spendchat/internal/config"
	"spendchat/internal/logger"
)

// NewRedis connects to the redis instance holding OTP challenges.
// Unlike the database, redis is required: without it no challenge can expire.
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.For("database").Infow("redis connection established", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return rdb, nil
}
