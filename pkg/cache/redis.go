package cache

import (
	"context"
	"fmt"
	"time"

	"support-directory/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// InitRedis opens the session store client and verifies it with a ping.
func InitRedis(ctx context.Context, config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: config.Addr,
		DB:   config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
