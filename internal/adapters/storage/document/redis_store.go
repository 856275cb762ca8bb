package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Defaults for RedisStore.
const (
	DefaultRedisPrefix  = "ergosanitas:doc:"
	DefaultRedisChannel = "ergosanitas:changes"
)

// RedisStore keeps documents as plain string keys and announces every write
// on a pub/sub channel, so views in other processes can follow along.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces document keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithChannel sets the pub/sub channel for change announcements.
func WithChannel(channel string) RedisOption {
	return func(s *RedisStore) { s.channel = channel }
}

// NewRedisStore creates a view with a fresh origin.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		prefix:  DefaultRedisPrefix,
		channel: DefaultRedisChannel,
		origin:  uuid.NewString(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Origin identifies this view in change announcements.
func (s *RedisStore) Origin() string { return s.origin }

// Read returns the document at key. A missing key is not an error.
func (s *RedisStore) Read(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Write sets the document and publishes the change in one MULTI block.
func (s *RedisStore) Write(ctx context.Context, key, value string) error {
	msg, err := s.announce(Change{Key: key, Value: value})
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.prefix+key, value, 0)
		p.Publish(ctx, s.channel, msg)
		return nil
	})
	return err
}

// Remove deletes the document and publishes the removal when a key existed.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil || n == 0 {
		return err
	}
	msg, err := s.announce(Change{Key: key, Removed: true})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, msg).Err()
}

// Watch subscribes to the change channel and delivers foreign changes.
func (s *RedisStore) Watch(ctx context.Context, fn func(Change)) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed before reporting ready
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", s.channel)
			}
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				slog.Warn("storage_event", "event", "change_decode_failed", "error", err)
				continue
			}
			if c.Origin == s.origin {
				continue
			}
			fn(c)
		}
	}
}

func (s *RedisStore) announce(c Change) (string, error) {
	c.Origin = s.origin
	c.At = time.Now().UTC()
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode change: %w", err)
	}
	return string(raw), nil
}
