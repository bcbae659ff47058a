package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/rdb/rdbtest"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	cfg := &config.Config{Store: config.Store{Engine: "sqlite"}}

	g, err := Open(cfg, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = g.Close() })

	return map[string]Store{
		"gorm":  g,
		"redis": NewRedis(rdbtest.New(), "clay:"),
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "/_users/missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "/_users/b", []byte(`{"username":"b"}`)))
			require.NoError(t, s.Put(ctx, "/_users/a", []byte(`{"username":"a"}`)))
			require.NoError(t, s.Put(ctx, "/_pages/x", []byte(`{}`)))

			got, err := s.Get(ctx, "/_users/a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"username":"a"}`, string(got))

			require.NoError(t, s.Put(ctx, "/_users/a", []byte(`{"username":"a2"}`)))

			got, err = s.Get(ctx, "/_users/a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"username":"a2"}`, string(got))

			entries, err := s.List(ctx, "/_users/")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "/_users/a", entries[0].Key)
			assert.Equal(t, "/_users/b", entries[1].Key)

			require.NoError(t, s.Delete(ctx, "/_users/a"))
			require.NoError(t, s.Delete(ctx, "/_users/a"), "deleting twice is not an error")

			_, err = s.Get(ctx, "/_users/a")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedis_Errors(t *testing.T) {
	ctx := context.Background()
	fake := rdbtest.New()
	fake.Err = errors.New("connection refused")

	s := NewRedis(fake, "clay:")

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	require.Error(t, s.Put(ctx, "k", []byte("v")))

	_, err = s.List(ctx, "")
	require.Error(t, err)
}

func TestOpen_RedisWithoutClient(t *testing.T) {
	_, err := Open(&config.Config{Store: config.Store{Engine: "redis"}}, nil)
	require.ErrorIs(t, err, ErrNoRedisClient)
}
