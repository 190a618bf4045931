package redis

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aranyat/reviews-api/pkg/config"
	"github.com/aranyat/reviews-api/pkg/global"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		Protocol: 2,
	})

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
