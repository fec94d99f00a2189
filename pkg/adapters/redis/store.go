package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stateworks/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.DataStore using Redis registers (INCRBY/GET/SET).
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.DataStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration applied to every written key.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "stateworks:data:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get returns the register value; a missing key reads as zero.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(key)).Int64()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get %q from redis: %w", key, err)
	}
	return v, nil
}

// Add increments the register atomically.
func (s *Store) Add(ctx context.Context, key string, delta int64) (int64, error) {
	if s.ttl == 0 {
		v, err := s.client.IncrBy(ctx, s.key(key), delta).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to increment %q in redis: %w", key, err)
		}
		return v, nil
	}

	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, s.key(key), delta)
	pipe.Expire(ctx, s.key(key), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment %q in redis: %w", key, err)
	}
	return incr.Val(), nil
}

// Set overwrites the register.
func (s *Store) Set(ctx context.Context, key string, value int64) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %q in redis: %w", key, err)
	}
	return nil
}

// Delete removes the register.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from redis: %w", key, err)
	}
	return nil
}

// Client returns the underlying client, e.g. to share it between stores
// with different prefixes.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
