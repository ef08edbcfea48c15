package storage

import (
	"context"
	"fmt"

	"github.com/cloudpocket/pocket-cli/pkg/crypto/adaptive"
)

// SealedEngine encrypts values before handing them to the inner engine.
// The key of each entry is bound as additional data, so a value copied to
// another slot fails to open.
type SealedEngine struct {
	inner      KVEngine
	passphrase []byte
}

// NewSealedEngine wraps inner. passphrase must be non-empty.
func NewSealedEngine(inner KVEngine, passphrase string) (*SealedEngine, error) {
	if passphrase == "" {
		return nil, adaptive.ErrEmptyPassphrase
	}
	return &SealedEngine{inner: inner, passphrase: []byte(passphrase)}, nil
}

func (s *SealedEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := adaptive.Open(s.passphrase, sealed, key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return plain, nil
}

func (s *SealedEngine) Set(ctx context.Context, key, value []byte) error {
	sealed, err := adaptive.Seal(s.passphrase, value, key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedEngine) Delete(ctx context.Context, key []byte) error {
	return s.inner.Delete(ctx, key)
}

// Scan yields keys with their sealed values; values are not opened.
func (s *SealedEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	return s.inner.Scan(ctx, prefix, fn)
}

func (s *SealedEngine) Close() error {
	return s.inner.Close()
}
