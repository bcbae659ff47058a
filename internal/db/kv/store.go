// Package kv implements the key value user store on top of gorm or redis.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// Entry is a key with its value.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a key value store.
type Store interface {
	// Get returns the value of key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the value of key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all entries whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Close releases the backend.
	Close() error
}

// ErrNoRedisClient is returned when the redis engine is selected without a client.
var ErrNoRedisClient = errors.New("redis client is not configured")
