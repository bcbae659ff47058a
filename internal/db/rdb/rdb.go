// Package rdb wires the go-redis client shared by the user store, the session
// storage and the event bus.
package rdb

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Client is the subset of *redis.Client used in this module.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

var _ Client = (*redis.Client)(nil)

// New creates a redis client and checks the connection.
func New(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, err //nolint:wrapcheck
	}

	return client, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// MatchPrefix returns the SCAN MATCH pattern of all keys starting with prefix.
func MatchPrefix(prefix string) string {
	return globEscaper.Replace(prefix) + "*"
}

// ScanKeys returns all keys starting with prefix.
func ScanKeys(ctx context.Context, c Client, prefix string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)

	for {
		page, next, err := c.Scan(ctx, cursor, MatchPrefix(prefix), 100).Result() //nolint:mnd
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		keys = append(keys, page...)

		if next == 0 {
			return keys, nil
		}

		cursor = next
	}
}
