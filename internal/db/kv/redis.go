package kv

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/clay-auth/clay-auth/internal/db/rdb"
)

// Redis stores entries as plain redis strings below a key prefix.
type Redis struct {
	client rdb.Client
	prefix string
}

var _ Store = (*Redis)(nil)

// NewRedis returns a redis backed store. All keys are stored below prefix.
func NewRedis(client rdb.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get implements Store.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, err //nolint:wrapcheck
	}

	return val, nil
}

// Put implements Store.
func (s *Redis) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err() //nolint:wrapcheck
}

// Delete implements Store.
func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err() //nolint:wrapcheck
}

// List implements Store. Keys removed between SCAN and GET are skipped.
func (s *Redis) List(ctx context.Context, prefix string) ([]Entry, error) {
	keys, err := rdb.ScanKeys(ctx, s.client, s.prefix+prefix)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))

	for _, k := range keys {
		val, errGet := s.client.Get(ctx, k).Bytes()
		if errors.Is(errGet, redis.Nil) {
			continue
		}

		if errGet != nil {
			return nil, errGet //nolint:wrapcheck
		}

		out = append(out, Entry{Key: strings.TrimPrefix(k, s.prefix), Value: val})
	}

	return out, nil
}

// Close implements Store.
func (s *Redis) Close() error {
	return s.client.Close() //nolint:wrapcheck
}
