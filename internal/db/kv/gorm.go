package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clay-auth/clay-auth/internal/db/controller/entry"
	"github.com/clay-auth/clay-auth/internal/db/models"
)

// Gorm stores entries in a sql table.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// NewGorm migrates the entries table and returns the store.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, entry.ErrDBNil
	}

	if err := db.AutoMigrate(&models.Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate entries: %w", err)
	}

	return &Gorm{db: db}, nil
}

// Get implements Store.
func (s *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	e, err := entry.Get(s.db.WithContext(ctx), key)
	if err != nil {
		if errors.Is(err, entry.ErrEntryNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return e.Value, nil
}

// Put implements Store.
func (s *Gorm) Put(ctx context.Context, key string, value []byte) error {
	_, err := entry.Set(s.db.WithContext(ctx), key, value)

	return err
}

// Delete implements Store.
func (s *Gorm) Delete(ctx context.Context, key string) error {
	err := entry.Delete(s.db.WithContext(ctx), key)
	if errors.Is(err, entry.ErrEntryNotFound) {
		return nil
	}

	return err
}

// List implements Store.
func (s *Gorm) List(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := entry.ListByPrefix(s.db.WithContext(ctx), prefix)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{Key: r.Key, Value: r.Value})
	}

	return out, nil
}

// Close implements Store.
func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return sqlDB.Close() //nolint:wrapcheck
}
