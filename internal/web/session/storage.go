package session

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/dsn"
	"github.com/clay-auth/clay-auth/internal/db/rdb"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
)

// ErrNoRedisClient is returned when redis session storage is selected without a client.
var ErrNoRedisClient = errors.New("redis session storage requires a redis client")

// NewStorage returns the storage selected by cfg.Session.Storage.
// The memory backend returns nil, the fiber default.
func NewStorage(cfg *config.Config, client rdb.Client) (fiber.Storage, error) {
	switch cfg.Session.Storage {
	case StorageRedis:
		if client == nil {
			return nil, ErrNoRedisClient
		}

		return NewRedisStorage(client, cfg.Session.KeyPrefix), nil
	case StoragePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         cfg.Session.Table,
		}), nil
	case StorageMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         cfg.Session.Table,
		}), nil
	case StorageMemory, "":
		return nil, nil //nolint:nilnil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidSessionStorage, cfg.Session.Storage)
	}
}
