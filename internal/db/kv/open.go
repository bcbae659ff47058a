package kv

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/dsn"
	"github.com/clay-auth/clay-auth/internal/db/rdb"
	"github.com/clay-auth/clay-auth/internal/logger/adapter/stdlogger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open returns the store selected by cfg.Store.Engine.
// The redis client is only required for the redis engine.
func Open(cfg *config.Config, client rdb.Client) (Store, error) {
	var dialector gorm.Dialector

	switch cfg.Store.Engine {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("store engine redis: %w", ErrNoRedisClient)
		}

		return NewRedis(client, cfg.Store.Prefix), nil
	case "mysql":
		dialector = gormmysql.Open(dsn.MySQL(cfg.DB))
	case "postgres":
		dialector = postgres.Open(dsn.Postgres(cfg.DB))
	default:
		dialector = sqlite.Open(dsn.SQLite(cfg.DB))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlogger.New("gorm"), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Engine, err)
	}

	// sqlite allows a single writer, an in-memory database exists per connection
	if dialector.Name() == "sqlite" {
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, errDB //nolint:wrapcheck
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return NewGorm(db)
}
