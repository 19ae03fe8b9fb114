package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// backends under test. SQLite is covered too since it shares no code with
// the bolt backend beyond the interface.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	boltStore, err := NewBoltStore(filepath.Join(dir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("opening bolt store: %v", err)
	}

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "test.sqlite"))
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   boltStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
			}

			if err := store.Put(ctx, "accounts", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := store.Get(ctx, "accounts")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `[{"id":"a"}]` {
				t.Errorf("Get = %s", got)
			}

			// Overwrite replaces the prior value.
			if err := store.Put(ctx, "accounts", []byte(`[]`)); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}
			got, err = store.Get(ctx, "accounts")
			if err != nil {
				t.Fatalf("Get after overwrite: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get after overwrite = %s, want []", got)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Delete(ctx, "absent"); err != nil {
				t.Fatalf("Delete(absent) = %v, want nil", err)
			}

			if err := store.Put(ctx, "settings", []byte(`{}`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := store.Delete(ctx, "settings"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreKeys(t *testing.T) {
	ctx := context.Background()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"settings", "accounts", "budgets"} {
				if err := store.Put(ctx, key, []byte(`{}`)); err != nil {
					t.Fatalf("Put(%s): %v", key, err)
				}
			}
			keys, err := store.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(keys) != 3 {
				t.Fatalf("Keys = %v, want 3 entries", keys)
			}
			seen := make(map[string]bool, len(keys))
			for _, k := range keys {
				seen[k] = true
			}
			for _, want := range []string{"settings", "accounts", "budgets"} {
				if !seen[want] {
					t.Errorf("Keys missing %q: %v", want, keys)
				}
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte(`{"v":1}`)
	if err := store.Put(ctx, "k", original); err != nil {
		t.Fatalf("Put: %v", err)
	}
	original[0] = 'X'

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"v":1}` {
		t.Errorf("stored value aliased caller slice: %s", got)
	}

	got[0] = 'Y'
	again, _ := store.Get(ctx, "k")
	if string(again) != `{"v":1}` {
		t.Errorf("returned value aliased stored slice: %s", again)
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("opening bolt store: %v", err)
	}
	if err := store.Put(ctx, "goals", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("reopening bolt store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "goals")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Get after reopen = %s, want []", got)
	}
}
