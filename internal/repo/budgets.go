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

type Budgets struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewBudgets(store *storage.Store) *Budgets {
	return &Budgets{store: store}
}

func (r *Budgets) GetAll(ctx context.Context) ([]core.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

func (r *Budgets) Add(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = ident.New()
	budgets := append(r.loadLocked(ctx), b)
	if err := r.store.Save(ctx, storage.KeyBudgets, budgets); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *Budgets) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	budgets := r.loadLocked(ctx)
	i := indexOfBudget(budgets, b.ID)
	if i < 0 {
		return core.Budget{}, fmt.Errorf("budget %q: %w", b.ID, ErrNotFound)
	}
	budgets[i] = b
	if err := r.store.Save(ctx, storage.KeyBudgets, budgets); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// Delete removes the budget outright. Budgets are referenced by nothing,
// so there is no archive step.
func (r *Budgets) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	budgets := r.loadLocked(ctx)
	i := indexOfBudget(budgets, id)
	if i < 0 {
		return fmt.Errorf("budget %q: %w", id, ErrNotFound)
	}
	budgets = append(budgets[:i], budgets[i+1:]...)
	return r.store.Save(ctx, storage.KeyBudgets, budgets)
}

func (r *Budgets) GetByID(ctx context.Context, id string) (*core.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.loadLocked(ctx) {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *Budgets) loadLocked(ctx context.Context) []core.Budget {
	var budgets []core.Budget
	if err := r.store.Load(ctx, storage.KeyBudgets, &budgets); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "loading budgets failed, treating as empty", "error", err)
		}
		return []core.Budget{}
	}
	return budgets
}

func indexOfBudget(budgets []core.Budget, id string) int {
	for i := range budgets {
		if budgets[i].ID == id {
			return i
		}
	}
	return -1
}
