package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

var _ tictactoe.SnapshotStore = (*RedisStore)(nil)

// redisKeyPrefix namespaces snapshot keys in a shared Redis database.
const redisKeyPrefix = "tictactoe:snapshot:"

// RedisStore keeps snapshots in Redis. It has no result log.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects to Redis at addr and checks the connection.
func OpenRedis(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// LoadSnapshot returns the encoded snapshot stored under key.
func (s *RedisStore) LoadSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot load snapshot %s: %w", key, err)
	}
	return data, true, nil
}

// SaveSnapshot stores data under key without expiry.
func (s *RedisStore) SaveSnapshot(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: cannot save snapshot %s: %w", key, err)
	}
	return nil
}

// DeleteSnapshot removes the snapshot stored under key.
func (s *RedisStore) DeleteSnapshot(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot %s: %w", key, err)
	}
	return nil
}
