package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/clay-auth/clay-auth/internal/db/kv"
	"github.com/clay-auth/clay-auth/internal/db/models"
)

// Repository reads and writes user records. Records are JSON documents at StoreKey(key).
type Repository struct {
	store kv.Store
}

// NewRepository returns a repository over store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Get returns the record of key with Ref set.
func (r *Repository) Get(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	data, err := r.store.Get(ctx, StoreKey(key))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read user %s: %w", key, err)
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", key, err)
	}

	u.Ref = StoreKey(key)

	return &u, nil
}

// Put writes u under its identity key and sets u.Ref. The reference itself is not stored.
func (r *Repository) Put(ctx context.Context, u *models.User) (string, error) {
	key := DeriveKey(u.Username, u.Provider)

	stored := *u
	stored.Ref = ""

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode user %s: %w", key, err)
	}

	if err := r.store.Put(ctx, StoreKey(key), data); err != nil {
		return "", fmt.Errorf("failed to write user %s: %w", key, err)
	}

	u.Ref = StoreKey(key)

	return key, nil
}

// Delete removes the record of key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyEmpty
	}

	if err := r.store.Delete(ctx, StoreKey(key)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", key, err)
	}

	return nil
}

// Keys returns the identity keys of all records.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	entries, err := r.store.List(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, strings.TrimPrefix(e.Key, Prefix))
	}

	return keys, nil
}
