// Package backend selects and opens the key-value backend configured for
// the process.
package backend

import (
	"fmt"
	"log/slog"

	"moneta/internal/config"
	"moneta/internal/kv"
)

type Type string

const (
	Bolt   Type = "bolt"
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Bolt, SQLite, Memory:
		return true
	}
	return false
}

// Result bundles the opened store with its cleanup function.
type Result struct {
	Store   kv.Store
	Cleanup func() error
}

// Open creates the kv backend named by the config.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case Bolt:
		store, err := kv.NewBoltStore(cfg.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize bolt backend: %w", err)
		}
		logger.Info("initialized bolt backend", "path", cfg.BoltDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case SQLite:
		store, err := kv.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		store := kv.NewMemoryStore()
		logger.Info("initialized memory backend")
		return &Result{Store: store, Cleanup: store.Close}, nil
	}
}
