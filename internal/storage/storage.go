// Package storage is the typed persistence layer: JSON collections stored
// as blobs in a key-value backend under fixed keys, with first-run
// bootstrap and factory reset.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moneta/internal/cache"
	"moneta/internal/kv"
)

// Storage keys. Each holds one JSON value: a single object for settings,
// an array for every other collection.
const (
	KeySettings     = "settings"
	KeyAccounts     = "accounts"
	KeyCategories   = "categories"
	KeyTransactions = "transactions"
	KeyBudgets      = "budgets"
	KeyGoals        = "goals"
)

// Keys lists every storage key the store owns.
var Keys = []string{KeySettings, KeyAccounts, KeyCategories, KeyTransactions, KeyBudgets, KeyGoals}

var (
	// ErrNotFound reports an absent key.
	ErrNotFound = errors.New("no value stored")

	// ErrCorrupt reports a value that exists but does not decode. Callers
	// use it to tell corruption apart from simple absence.
	ErrCorrupt = errors.New("corrupt stored value")
)

const (
	cacheSize = 16
	cacheTTL  = 30 * time.Second
)

// Store serializes and deserializes collection values over a kv backend.
// A small read-through cache keeps hot blobs in memory; it is updated on
// Save and dropped on Delete, so within one process reads after writes are
// always consistent.
type Store struct {
	kv    kv.Store
	cache *cache.LRU[[]byte]
}

func New(backend kv.Store) *Store {
	return &Store{
		kv:    backend,
		cache: cache.NewLRU[[]byte](cacheSize, cacheTTL),
	}
}

// Save serializes v and writes it under key, overwriting any prior value.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	s.cache.Set(key, raw)
	return nil
}

// Load reads the value under key into v. Returns ErrNotFound when the key
// is absent, and an error wrapping ErrCorrupt when the stored bytes do not
// decode.
func (s *Store) Load(ctx context.Context, key string, v any) error {
	raw, ok := s.cache.Get(key)
	if !ok {
		var err error
		raw, err = s.kv.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load %q: %w", key, err)
		}
		s.cache.Set(key, raw)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.cache.Delete(key)
		return fmt.Errorf("decode %q: %w (%v)", key, ErrCorrupt, err)
	}
	return nil
}

// Delete removes the value under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	s.cache.Delete(key)
	return nil
}

// ResetAllData deletes every known key. It does not re-seed defaults;
// callers wanting a usable store must run InitializeDefaultData again.
func (s *Store) ResetAllData(ctx context.Context) error {
	for _, key := range Keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset %q: %w", key, err)
		}
	}
	s.cache.Purge()
	return nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}
