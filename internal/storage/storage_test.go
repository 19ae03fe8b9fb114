package storage

import (
	"context"
	"errors"
	"testing"

	"moneta/internal/core"
	"moneta/internal/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	backend := kv.NewMemoryStore()
	store := New(backend)
	t.Cleanup(func() { _ = store.Close() })
	return store, backend
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	in := []core.Account{{ID: "a1", Name: "Cash", Type: core.Cash, Currency: "USD"}}
	if err := store.Save(ctx, KeyAccounts, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out []core.Account
	if err := store.Load(ctx, KeyAccounts, &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a1" || out[0].Name != "Cash" {
		t.Errorf("Load = %+v", out)
	}
}

func TestLoadAbsentKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var out []core.Account
	err := store.Load(ctx, KeyAccounts, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(absent) = %v, want ErrNotFound", err)
	}
}

func TestLoadCorruptValue(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	if err := backend.Put(ctx, KeyTransactions, []byte(`{not json`)); err != nil {
		t.Fatalf("seeding corrupt bytes: %v", err)
	}

	var out []core.Transaction
	err := store.Load(ctx, KeyTransactions, &out)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load(corrupt) = %v, want ErrCorrupt", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("corruption must not read as absence")
	}

	// A type mismatch is corruption too: the value exists but does not
	// decode into the expected shape.
	if err := backend.Put(ctx, KeyAccounts, []byte(`{"id":"a1"}`)); err != nil {
		t.Fatalf("seeding mismatched bytes: %v", err)
	}
	var accounts []core.Account
	if err := store.Load(ctx, KeyAccounts, &accounts); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load(object into slice) = %v, want ErrCorrupt", err)
	}
}

func TestInitializeDefaultData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.IsFirstRun(ctx)
	if err != nil || !first {
		t.Fatalf("IsFirstRun on empty store = %v, %v, want true", first, err)
	}

	if err := store.InitializeDefaultData(ctx); err != nil {
		t.Fatalf("InitializeDefaultData: %v", err)
	}

	first, err = store.IsFirstRun(ctx)
	if err != nil || first {
		t.Fatalf("IsFirstRun after seed = %v, %v, want false", first, err)
	}

	var settings core.Settings
	if err := store.Load(ctx, KeySettings, &settings); err != nil {
		t.Fatalf("Load settings: %v", err)
	}
	if settings.Currency != "USD" || settings.StartDayOfMonth != 1 {
		t.Errorf("seeded settings = %+v", settings)
	}

	var accounts []core.Account
	if err := store.Load(ctx, KeyAccounts, &accounts); err != nil {
		t.Fatalf("Load accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("seeded accounts = %d, want 2", len(accounts))
	}

	var categories []core.Category
	if err := store.Load(ctx, KeyCategories, &categories); err != nil {
		t.Fatalf("Load categories: %v", err)
	}
	if len(categories) != 9 {
		t.Errorf("seeded categories = %d, want 9", len(categories))
	}

	// Empty collections seed as empty arrays, not absence.
	for _, key := range []string{KeyTransactions, KeyBudgets, KeyGoals} {
		var probe []any
		if err := store.Load(ctx, key, &probe); err != nil {
			t.Errorf("Load(%s) after seed = %v, want empty array", key, err)
		}
	}
}

func TestInitializeDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.InitializeDefaultData(ctx); err != nil {
		t.Fatalf("first InitializeDefaultData: %v", err)
	}

	// Mutate user data, then re-run bootstrap. Nothing may be overwritten.
	custom := []core.Account{{ID: "mine", Name: "My Account", Type: core.Bank, Currency: "EUR"}}
	if err := store.Save(ctx, KeyAccounts, custom); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.InitializeDefaultData(ctx); err != nil {
		t.Fatalf("second InitializeDefaultData: %v", err)
	}

	var accounts []core.Account
	if err := store.Load(ctx, KeyAccounts, &accounts); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "mine" {
		t.Errorf("bootstrap overwrote existing data: %+v", accounts)
	}
}

func TestResetAllData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.InitializeDefaultData(ctx); err != nil {
		t.Fatalf("InitializeDefaultData: %v", err)
	}
	if err := store.ResetAllData(ctx); err != nil {
		t.Fatalf("ResetAllData: %v", err)
	}

	// Reset deletes everything and does not re-seed.
	for _, key := range Keys {
		var probe any
		if err := store.Load(ctx, key, &probe); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%s) after reset = %v, want ErrNotFound", key, err)
		}
	}

	first, err := store.IsFirstRun(ctx)
	if err != nil || !first {
		t.Errorf("IsFirstRun after reset = %v, %v, want true", first, err)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.InitializeDefaultData(ctx); err != nil {
		t.Fatalf("InitializeDefaultData: %v", err)
	}
	txs := []core.Transaction{{
		ID: "t1", Type: core.Income, Date: "2025-05-01T00:00:00Z",
		Amount: core.Money{Cents: 100}, AccountID: "a1", Description: "pay",
	}}
	if err := store.Save(ctx, KeyTransactions, txs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if data.Version != core.DataVersion {
		t.Errorf("Version = %q, want %q", data.Version, core.DataVersion)
	}
	if data.LastBackupDate == "" {
		t.Error("LastBackupDate not set")
	}
	if len(data.Accounts) != 2 || len(data.Categories) != 9 {
		t.Errorf("snapshot collections: accounts=%d categories=%d", len(data.Accounts), len(data.Categories))
	}
	if len(data.Transactions) != 1 || data.Transactions[0].ID != "t1" {
		t.Errorf("snapshot transactions = %+v", data.Transactions)
	}
	if data.Settings.Currency != "USD" {
		t.Errorf("snapshot settings = %+v", data.Settings)
	}
}
