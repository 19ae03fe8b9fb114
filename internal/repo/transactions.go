package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"moneta/internal/balance"
	"moneta/internal/core"
	"moneta/internal/ident"
	"moneta/internal/storage"
)

// ChangePublisher emits change events after successful mutations. A nil
// publisher disables eventing. Publish failures never fail the mutation;
// the record is already persisted locally.
type ChangePublisher interface {
	PublishChange(ctx context.Context, entity, op, id string) error
}

// Transactions is the one repository with side effects beyond its own
// collection: every mutation drives the balance engine with the new and/or
// old transaction state.
type Transactions struct {
	mu        sync.Mutex
	store     *storage.Store
	engine    *balance.Engine
	publisher ChangePublisher
}

func NewTransactions(store *storage.Store, engine *balance.Engine, publisher ChangePublisher) *Transactions {
	return &Transactions{store: store, engine: engine, publisher: publisher}
}

// GetAll returns every stored transaction. A collection that exists but
// does not decode is treated as corrupted: the key is reset to an empty
// list and an empty slice is returned, trading the broken history for an
// app that still starts. Other read errors also surface as empty.
func (r *Transactions) GetAll(ctx context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

// Add persists the new transaction, then applies its effect to account
// balances. A balance-save failure after the transaction save leaves the
// two collections inconsistent until RecalculateAll; there is no
// partial-commit protection.
func (r *Transactions) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = ident.New()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	r.mu.Lock()
	transactions := append(r.loadLocked(ctx), tx)
	err := r.store.Save(ctx, storage.KeyTransactions, transactions)
	r.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	if err := r.engine.UpdateForTransaction(ctx, &tx, nil); err != nil {
		return core.Transaction{}, err
	}
	r.publish(ctx, "created", tx.ID)
	return tx, nil
}

// Update replaces the stored transaction, then reverts the pre-update
// snapshot's effect and applies the new one in a single balance pass.
func (r *Transactions) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	r.mu.Lock()
	transactions := r.loadLocked(ctx)
	i := indexOfTransaction(transactions, tx.ID)
	if i < 0 {
		r.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("transaction %q: %w", tx.ID, ErrNotFound)
	}
	old := transactions[i]
	transactions[i] = tx
	err := r.store.Save(ctx, storage.KeyTransactions, transactions)
	r.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	if err := r.engine.UpdateForTransaction(ctx, &tx, &old); err != nil {
		return core.Transaction{}, err
	}
	r.publish(ctx, "updated", tx.ID)
	return tx, nil
}

// Delete removes the transaction, then reverts its effect.
func (r *Transactions) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	transactions := r.loadLocked(ctx)
	i := indexOfTransaction(transactions, id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	deleted := transactions[i]
	transactions = append(transactions[:i], transactions[i+1:]...)
	err := r.store.Save(ctx, storage.KeyTransactions, transactions)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if err := r.engine.UpdateForTransaction(ctx, nil, &deleted); err != nil {
		return err
	}
	r.publish(ctx, "deleted", id)
	return nil
}

func (r *Transactions) GetByID(ctx context.Context, id string) (*core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range r.loadLocked(ctx) {
		if tx.ID == id {
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *Transactions) loadLocked(ctx context.Context) []core.Transaction {
	var transactions []core.Transaction
	err := r.store.Load(ctx, storage.KeyTransactions, &transactions)
	if err == nil {
		return transactions
	}
	if errors.Is(err, storage.ErrCorrupt) {
		slog.WarnContext(ctx, "transaction store corrupted, resetting to empty", "error", err)
		if saveErr := r.store.Save(ctx, storage.KeyTransactions, []core.Transaction{}); saveErr != nil {
			slog.ErrorContext(ctx, "failed to reset transaction store", "error", saveErr)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "loading transactions failed, treating as empty", "error", err)
	}
	return []core.Transaction{}
}

func (r *Transactions) publish(ctx context.Context, op, id string) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishChange(ctx, "transaction", op, id); err != nil {
		slog.WarnContext(ctx, "failed to publish change event", "op", op, "id", id, "error", err)
	}
}

func indexOfTransaction(transactions []core.Transaction, id string) int {
	for i := range transactions {
		if transactions[i].ID == id {
			return i
		}
	}
	return -1
}
