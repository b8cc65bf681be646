package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// NewStateStore returns a Redis backed [StateStore] when cfg.URL is set and
// an in-process one otherwise. The Redis connection is checked with PING.
func NewStateStore(ctx context.Context, cfg config.Redis, log *logger.Logger) (StateStore, error) {
	if cfg.URL == "" {
		log.Info().Str("func", "NewStateStore").Msg("no redis url configured, keeping oauth state in memory")
		return NewMemoryStateStore(), nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Err(err).Str("func", "NewStateStore").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStateStore(client), nil
}

type redisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore wraps an existing client.
func NewRedisStateStore(client *redis.Client) StateStore {
	return &redisStateStore{client: client}
}

func (s *redisStateStore) Put(ctx context.Context, state, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (s *redisStateStore) Get(ctx context.Context, state string) (string, error) {
	value, err := s.client.Get(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get state: %w", err)
	}
	return value, nil
}

func (s *redisStateStore) Delete(ctx context.Context, state string) error {
	if err := s.client.Del(ctx, stateKeyPrefix+state).Err(); err != nil {
		return fmt.Errorf("redis delete state: %w", err)
	}
	return nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStateStore returns a [StateStore] for single-instance servers.
// Expired entries are dropped lazily.
func NewMemoryStateStore() StateStore {
	return &memoryStateStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *memoryStateStore) Put(_ context.Context, state, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryStateStore) Get(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return "", ErrStateNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, state)
		return "", ErrStateNotFound
	}
	return e.value, nil
}

func (s *memoryStateStore) Delete(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, state)
	return nil
}
