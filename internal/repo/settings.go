package repo

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type Settings struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewSettings(store *storage.Store) *Settings {
	return &Settings{store: store}
}

// Get returns the stored settings, falling back to the built-in defaults
// when nothing is stored or the record is unreadable.
func (r *Settings) Get(ctx context.Context) (core.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s core.Settings
	if err := r.store.Load(ctx, storage.KeySettings, &s); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "loading settings failed, using defaults", "error", err)
		}
		return storage.DefaultSettings(), nil
	}
	return s, nil
}

func (r *Settings) Save(ctx context.Context, s core.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Save(ctx, storage.KeySettings, s)
}
