// Package worker contains the backup worker: it listens for change events
// and periodically writes a versioned snapshot of the full app data to a
// local export file.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/events"
	"moneta/internal/storage"
)

// EventSource is the consuming side of the change-event bus.
type EventSource interface {
	ConsumeChanges(ctx context.Context, handler func(*events.Change) error) error
}

type BackupWorker struct {
	store    *storage.Store
	source   EventSource
	path     string
	interval time.Duration
}

// NewBackupWorker writes snapshots to path. source may be nil, in which
// case only the periodic ticker drives snapshots.
func NewBackupWorker(store *storage.Store, source EventSource, path string, interval time.Duration) *BackupWorker {
	return &BackupWorker{store: store, source: source, path: path, interval: interval}
}

// Run blocks until ctx is done, writing a snapshot on every change event
// and on every interval tick. An initial snapshot is written at startup.
func (w *BackupWorker) Run(ctx context.Context) error {
	if err := w.WriteSnapshot(ctx); err != nil {
		slog.WarnContext(ctx, "initial snapshot failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if w.source != nil {
		g.Go(func() error {
			return w.source.ConsumeChanges(ctx, func(change *events.Change) error {
				slog.InfoContext(ctx, "change event received",
					"entity", change.Entity, "op", change.Op, "id", change.ID)
				return w.WriteSnapshot(ctx)
			})
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.WriteSnapshot(ctx); err != nil {
					slog.ErrorContext(ctx, "periodic snapshot failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

// WriteSnapshot assembles the aggregate app data and writes it atomically
// (temp file + rename) so a crash never leaves a half-written export.
func (w *BackupWorker) WriteSnapshot(ctx context.Context) error {
	data, err := w.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("assemble snapshot: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.InfoContext(ctx, "snapshot written",
		"path", w.path,
		"accounts", len(data.Accounts),
		"transactions", len(data.Transactions))

	return nil
}
