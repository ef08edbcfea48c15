package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// KeyPrefix namespaces token slots inside an engine.
const KeyPrefix = "token/"

// KVEngine is the minimal key-value contract the token slot needs.
// Implementations must be safe for concurrent use.
type KVEngine interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key []byte) error
	// Scan calls fn for every key with prefix until fn returns false.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error
	Close() error
}

// TokenStore holds the credential token for one backend.
type TokenStore interface {
	// Get returns "" and a nil error when no token is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

// Slot is a TokenStore backed by a single key of a KVEngine.
type Slot struct {
	engine KVEngine
	key    []byte
}

// NewSlot binds a token slot for origin to engine.
func NewSlot(engine KVEngine, origin string) *Slot {
	return &Slot{engine: engine, key: []byte(KeyPrefix + origin)}
}

// Engine returns the engine behind the slot.
func (s *Slot) Engine() KVEngine { return s.engine }

// Key returns the engine key of the slot.
func (s *Slot) Key() string { return string(s.key) }

// Get implements TokenStore.
func (s *Slot) Get(ctx context.Context) (string, error) {
	v, err := s.engine.Get(ctx, s.key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token store: get: %w", err)
	}
	return string(v), nil
}

// Set implements TokenStore. An empty token clears the slot.
func (s *Slot) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.engine.Set(ctx, s.key, []byte(token)); err != nil {
		return fmt.Errorf("token store: set: %w", err)
	}
	return nil
}

// Clear implements TokenStore.
func (s *Slot) Clear(ctx context.Context) error {
	if err := s.engine.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("token store: clear: %w", err)
	}
	return nil
}

// Close closes the underlying engine.
func (s *Slot) Close() error {
	return s.engine.Close()
}

// ClearAll removes every token slot held by engine and returns the
// origins that were cleared.
func ClearAll(ctx context.Context, engine KVEngine) ([]string, error) {
	var keys [][]byte
	err := engine.Scan(ctx, []byte(KeyPrefix), func(key, _ []byte) bool {
		keys = append(keys, append([]byte(nil), key...))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("token store: scan: %w", err)
	}

	origins := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := engine.Delete(ctx, k); err != nil {
			return origins, fmt.Errorf("token store: clear %s: %w", k, err)
		}
		origins = append(origins, strings.TrimPrefix(string(k), KeyPrefix))
	}
	return origins, nil
}

// Origin reduces a base URL to scheme://host[:port], lowercased.
func Origin(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("server url %q must be absolute", baseURL)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}
