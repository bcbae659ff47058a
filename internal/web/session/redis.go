package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clay-auth/clay-auth/internal/db/rdb"
)

const redisTimeout = 5 * time.Second

// RedisStorage implements fiber.Storage on a shared redis client below a key prefix.
type RedisStorage struct {
	client rdb.Client
	prefix string
}

var _ fiber.Storage = (*RedisStorage)(nil)

// NewRedisStorage returns a redis session storage.
func NewRedisStorage(client rdb.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

// Get returns nil for a missing key.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err //nolint:wrapcheck
}

// Set stores val, exp 0 means no expiration.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp).Err() //nolint:wrapcheck
}

// Delete removes key.
func (s *RedisStorage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err() //nolint:wrapcheck
}

// Reset removes every session below the prefix.
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := rdb.ScanKeys(ctx, s.client, s.prefix)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(keys) == 0 {
		return nil
	}

	return s.client.Del(ctx, keys...).Err() //nolint:wrapcheck
}

// Close is a no-op, the client is owned by the caller.
func (s *RedisStorage) Close() error {
	return nil
}
