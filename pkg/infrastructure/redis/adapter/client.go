package adapter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient abre um cliente e confirma a conexão com PING.
func NewRedisClient(ctx context.Context, addr string) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}
