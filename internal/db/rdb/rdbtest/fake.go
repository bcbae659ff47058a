// Package rdbtest provides an in-memory rdb.Client for tests.
package rdbtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is a recorded PUBLISH call.
type Message struct {
	Channel string
	Payload any
}

// Fake implements rdb.Client on top of a map. Expiration is ignored.
type Fake struct {
	mu       sync.Mutex
	data     map[string]string
	messages []Message

	// Err, when set, is returned by every command.
	Err error
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{data: make(map[string]string)}
}

// Get implements rdb.Client.
func (f *Fake) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return redis.NewStringResult("", f.Err)
	}

	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(v, nil)
}

// Set implements rdb.Client.
func (f *Fake) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return redis.NewStatusResult("", f.Err)
	}

	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		return redis.NewStatusResult("", errors.New("rdbtest: unsupported value type"))
	}

	return redis.NewStatusResult("OK", nil)
}

// Del implements rdb.Client.
func (f *Fake) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}

	var n int64

	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}

	return redis.NewIntResult(n, nil)
}

// Scan implements rdb.Client with redis glob matching. Character classes are
// not supported and everything is returned in a single page.
func (f *Fake) Scan(_ context.Context, _ uint64, match string, _ int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return redis.NewScanCmdResult(nil, 0, f.Err)
	}

	keys := make([]string, 0, len(f.data))

	for k := range f.data {
		if globMatch(match, k) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	return redis.NewScanCmdResult(keys, 0, nil)
}

func globMatch(pattern, s string) bool {
	for pattern != "" {
		switch pattern[0] {
		case '*':
			for i := len(s); i >= 0; i-- {
				if globMatch(pattern[1:], s[i:]) {
					return true
				}
			}

			return false
		case '?':
			if s == "" {
				return false
			}
		case '\\':
			if len(pattern) > 1 {
				pattern = pattern[1:]
			}

			fallthrough
		default:
			if s == "" || s[0] != pattern[0] {
				return false
			}
		}

		pattern, s = pattern[1:], s[1:]
	}

	return s == ""
}

// Publish implements rdb.Client and records the message.
func (f *Fake) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}

	f.messages = append(f.messages, Message{Channel: channel, Payload: message})

	return redis.NewIntResult(1, nil)
}

// Close implements rdb.Client.
func (f *Fake) Close() error { return nil }

// Messages returns a copy of the published messages.
func (f *Fake) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Message(nil), f.messages...)
}

// Len returns the number of stored keys.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.data)
}
