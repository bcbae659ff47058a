// Package bus publishes fire-and-forget events to redis channels.
package bus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Event names.
const (
	EventSaveUser   = "saveUser"
	EventDeleteUser = "deleteUser"
)

// Bus publishes events. Publishing never blocks on delivery and never fails the caller.
type Bus interface {
	Publish(event string, payload any)
}

// Publisher is the redis command used by Redis.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Redis publishes JSON payloads to "<namespace>:<event>" channels.
type Redis struct {
	client    Publisher
	namespace string
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewRedis returns a redis bus.
func NewRedis(client Publisher, namespace string, timeout time.Duration) *Redis {
	return &Redis{
		client:    client,
		namespace: namespace,
		timeout:   timeout,
	}
}

// Channel returns the channel name of event.
func (b *Redis) Channel(event string) string {
	return b.namespace + ":" + event
}

// Publish implements Bus. The message is sent from its own goroutine, errors are logged.
func (b *Redis) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode bus payload")
		return
	}

	channel := b.Channel(event)

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish event")
			return
		}

		log.Debug().Str("channel", channel).Msg("event published")
	}()
}

// Wait blocks until all in flight publishes are done.
func (b *Redis) Wait() {
	b.wg.Wait()
}

// Nop drops every event.
type Nop struct{}

// Publish implements Bus.
func (Nop) Publish(string, any) {}
