// Package redis persists machine definitions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/arvholm/espalier/pkg/definition"
)

// Store implements ports.MachineStore using Redis. Each definition lives
// under its own key; a ZSET index tracks the registered names.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored definitions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored definitions.
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
		prefix: "espalier:machine:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the definition to Redis.
func (s *Store) Save(ctx context.Context, def *definition.Definition) (*definition.Stored, error) {
	if def.Name == "" {
		return nil, definition.ErrUnnamed
	}

	stored := definition.NewStored(def)
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}

	pipe := s.client.Pipeline()

	// 1. Save JSON with TTL. Zero means no expiration.
	pipe.Set(ctx, s.key(def.Name), data, s.ttl)

	// 2. Add to index (ZSET). Score = expiry time, so List can prune
	// lazily. With no TTL the score is far in the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: def.Name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save to redis: %w", err)
	}

	return stored, nil
}

// Load retrieves the stored record from Redis.
func (s *Store) Load(ctx context.Context, name string) (*definition.Stored, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, definition.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var stored definition.Stored
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal definition: %w", err)
	}

	return &stored, nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()

	del := pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return definition.ErrNotFound
	}
	return nil
}

// List returns the registered names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	// Lazy cleanup: drop index entries whose value keys have expired.
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired definitions: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
