package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEngine implements KVEngine on a Redis instance so that several
// shells or machines share one credential slot.
type RedisEngine struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisConfig configures NewRedisEngine.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Default: "pocket:"
	Prefix string

	// TTL expires stored values. Zero keeps them forever.
	TTL time.Duration
}

// NewRedisEngine connects to cfg.Addr and verifies it with PING.
func NewRedisEngine(ctx context.Context, cfg RedisConfig) (*RedisEngine, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return NewRedisEngineFromClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisEngineFromClient wraps an existing client.
func NewRedisEngineFromClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisEngine {
	if prefix == "" {
		prefix = "pocket:"
	}
	return &RedisEngine{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisEngine) key(k []byte) string {
	return r.prefix + string(k)
}

func (r *RedisEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, r.mapErr(err)
	}
	return v, nil
}

func (r *RedisEngine) Set(ctx context.Context, key, value []byte) error {
	return r.mapErr(r.client.Set(ctx, r.key(key), value, r.ttl).Err())
}

func (r *RedisEngine) Delete(ctx context.Context, key []byte) error {
	return r.mapErr(r.client.Del(ctx, r.key(key)).Err())
}

func (r *RedisEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	iter := r.client.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		v, err := r.client.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return r.mapErr(err)
		}
		if !fn([]byte(full[len(r.prefix):]), v) {
			return nil
		}
	}
	return r.mapErr(iter.Err())
}

func (r *RedisEngine) Close() error {
	return r.mapErr(r.client.Close())
}

func (r *RedisEngine) mapErr(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}
