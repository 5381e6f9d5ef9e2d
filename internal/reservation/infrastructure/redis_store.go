package infrastructure

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/pkg/application"
)

const DefaultRedisPrefix = "bus-reservation"

// redisBusStore guarda os registros, no mesmo formato do arquivo, em uma lista Redis.
type redisBusStore struct {
	client redis.UniversalClient
	key    string
	logger application.AppLogger
}

func NewRedisBusStore(client redis.UniversalClient, prefix string, logger application.AppLogger) domain.BusStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisBusStore{
		client: client,
		key:    redisBusesKey(prefix),
		logger: logger,
	}
}

func redisBusesKey(prefix string) string {
	return prefix + ":buses"
}

func (s *redisBusStore) Load(ctx context.Context) (domain.LoadResult, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		application.LogError(ctx, s.logger, "failed to load buses", err, map[string]interface{}{
			"key": s.key,
		})
		return domain.LoadResult{}, fmt.Errorf("lrange %s: %w", s.key, err)
	}

	if len(lines) == 0 {
		application.LogInfo(ctx, s.logger, "no buses stored", map[string]interface{}{
			"key": s.key,
		})
		return domain.LoadResult{}, nil
	}

	return decodeRecords(lines), nil
}

func (s *redisBusStore) Save(ctx context.Context, buses []domain.Bus) error {
	values := make([]interface{}, 0, len(buses))
	for _, bus := range buses {
		values = append(values, encodeRecord(bus))
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save buses", err, map[string]interface{}{
			"key": s.key,
		})
		return fmt.Errorf("save %s: %w", s.key, err)
	}

	application.LogInfo(ctx, s.logger, "buses saved", map[string]interface{}{
		"key":   s.key,
		"buses": len(buses),
	})
	return nil
}
