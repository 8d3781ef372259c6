// Package redis is a durable KVStore on Redis, for deployments that share
// fetch budgets between several processes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "guata:"

type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key. Defaults to "guata:".
	Prefix string
}

type KVStore struct {
	rdb    *redis.Client
	prefix string
}

// NewKVStore connects and pings the server.
func NewKVStore(ctx context.Context, cfg Config) (*KVStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &KVStore{rdb: rdb, prefix: prefix}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s failed: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s failed: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.rdb.Close()
}
