package kvs

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("kvs: key not found")

// Store is a durable string key-value store. Get returns ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Del(ctx context.Context, key string) error
}

type RedisStore struct {
	redis  *redis.Client
	prefix string
}

func NewRedis(redis *redis.Client, prefix string) RedisStore {
	return RedisStore{
		redis:  redis,
		prefix: prefix,
	}
}

func (r RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.redis.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r RedisStore) Set(ctx context.Context, key string, value string) error {
	if _, err := r.redis.Set(ctx, r.prefix+key, value, 0).Result(); err != nil {
		return err
	}
	return nil
}

func (r RedisStore) Del(ctx context.Context, key string) error {
	if _, err := r.redis.Del(ctx, r.prefix+key).Result(); err != nil {
		return err
	}
	return nil
}

// Memory is an in-process Store. Nothing survives a restart.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
	return nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
