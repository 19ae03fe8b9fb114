package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"moneta/internal/core"
	"moneta/internal/ident"
	"moneta/internal/storage"
)

type Accounts struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewAccounts(store *storage.Store) *Accounts {
	return &Accounts{store: store}
}

// GetAll returns every account, archived included. Read errors are
// swallowed: the caller gets an empty slice rather than a failure.
func (r *Accounts) GetAll(ctx context.Context) ([]core.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

// Add assigns a fresh id, seeds CurrentBalance from OpeningBalance and
// persists the collection.
func (r *Accounts) Add(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("validate account: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = ident.New()
	a.CurrentBalance = a.OpeningBalance
	accounts := append(r.loadLocked(ctx), a)
	if err := r.store.Save(ctx, storage.KeyAccounts, accounts); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (r *Accounts) Update(ctx context.Context, a core.Account) (core.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.loadLocked(ctx)
	i := indexOfAccount(accounts, a.ID)
	if i < 0 {
		return core.Account{}, fmt.Errorf("account %q: %w", a.ID, ErrNotFound)
	}
	accounts[i] = a
	if err := r.store.Save(ctx, storage.KeyAccounts, accounts); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// Delete archives the account. Historical transactions keep referencing it,
// so the record is never removed.
func (r *Accounts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.loadLocked(ctx)
	i := indexOfAccount(accounts, id)
	if i < 0 {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	accounts[i].IsArchived = true
	return r.store.Save(ctx, storage.KeyAccounts, accounts)
}

func (r *Accounts) GetByID(ctx context.Context, id string) (*core.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.loadLocked(ctx) {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// UpdateAll runs fn over the full collection inside the critical section,
// then persists whatever fn returns. The balance engine's entry point.
func (r *Accounts) UpdateAll(ctx context.Context, fn func(accounts []core.Account) ([]core.Account, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := fn(r.loadLocked(ctx))
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyAccounts, accounts)
}

func (r *Accounts) loadLocked(ctx context.Context) []core.Account {
	var accounts []core.Account
	if err := r.store.Load(ctx, storage.KeyAccounts, &accounts); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "loading accounts failed, treating as empty", "error", err)
		}
		return []core.Account{}
	}
	return accounts
}

func indexOfAccount(accounts []core.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}
