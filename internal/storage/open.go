package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Options selects and configures the engine behind a token slot.
type Options struct {
	Backend string

	// Dir is the Badger directory.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// Passphrase enables at-rest encryption when non-empty.
	Passphrase string

	Logger   *slog.Logger
	Registry prometheus.Registerer
}

// Open builds the token slot for origin as described by opts.
func Open(ctx context.Context, opts Options, origin string) (*Slot, error) {
	var (
		engine KVEngine
		err    error
	)

	switch opts.Backend {
	case BackendMemory:
		engine = NewMemoryEngine()
	case BackendBadger, "":
		var be *BadgerEngine
		be, err = NewBadgerEngine(DefaultBadgerConfig(opts.Dir), opts.Logger)
		if err == nil && opts.Registry != nil {
			be.RegisterMetrics(opts.Registry)
		}
		engine = be
	case BackendRedis:
		engine, err = NewRedisEngine(ctx, RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			TTL:      opts.RedisTTL,
		})
	default:
		return nil, fmt.Errorf("unknown token store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if opts.Passphrase != "" {
		sealed, err := NewSealedEngine(engine, opts.Passphrase)
		if err != nil {
			_ = engine.Close()
			return nil, err
		}
		engine = sealed
	}

	return NewSlot(engine, origin), nil
}
