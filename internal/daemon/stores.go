package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/bus"
	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/kv"
	"github.com/clay-auth/clay-auth/internal/db/rdb"
	"github.com/clay-auth/clay-auth/internal/users"
	"github.com/clay-auth/clay-auth/internal/web/session"
)

// Stores holds the backends shared by the daemon and the command line.
type Stores struct {
	KV     kv.Store
	Client rdb.Client // nil unless a component uses redis
	Bus    bus.Bus
}

// OpenStores connects the user store, redis and the event bus selected by cfg.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{Bus: bus.Nop{}}

	if needsRedis(cfg) {
		client, err := rdb.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		s.Client = client

		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("connected to redis")
	}

	store, err := kv.Open(cfg, s.Client)
	if err != nil {
		s.Close()

		return nil, err //nolint:wrapcheck
	}

	s.KV = store

	if cfg.Bus.Enabled {
		s.Bus = bus.NewRedis(s.Client, cfg.Bus.Namespace, cfg.Bus.Timeout)
	}

	return s, nil
}

// Users returns the user service over the stores.
func (s *Stores) Users() *users.Service {
	return users.NewService(users.NewRepository(s.KV), s.Bus)
}

// Close waits for pending events and closes the backends.
func (s *Stores) Close() {
	if b, ok := s.Bus.(*bus.Redis); ok {
		b.Wait()
	}

	if s.KV != nil {
		if err := s.KV.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close user store")
		}
	}

	if s.Client != nil {
		if err := s.Client.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func needsRedis(cfg *config.Config) bool {
	return cfg.Store.Engine == "redis" || cfg.Session.Storage == session.StorageRedis || cfg.Bus.Enabled
}
