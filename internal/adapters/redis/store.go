// Package redis keeps per-user clarification context in Redis so a question
// asked by one process can be answered through another. Entries expire on a
// TTL; a user who never answers simply starts fresh.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// Store implements ports.ContextStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored contexts.
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

// New creates a Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "mealgraph:context:",
		ttl:    30 * time.Minute,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

// Save persists the user's clarification context.
func (s *Store) Save(ctx context.Context, userID int64, pc domain.PriorContext) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the user's context, or domain.ErrContextNotFound.
func (s *Store) Load(ctx context.Context, userID int64) (domain.PriorContext, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.PriorContext{}, domain.ErrContextNotFound
		}
		return domain.PriorContext{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var pc domain.PriorContext
	if err := json.Unmarshal([]byte(val), &pc); err != nil {
		return domain.PriorContext{}, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	return pc, nil
}

// Delete removes the user's context.
func (s *Store) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
