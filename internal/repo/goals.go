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

type Goals struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewGoals(store *storage.Store) *Goals {
	return &Goals{store: store}
}

func (r *Goals) GetAll(ctx context.Context) ([]core.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

func (r *Goals) Add(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g.ID = ident.New()
	goals := append(r.loadLocked(ctx), g)
	if err := r.store.Save(ctx, storage.KeyGoals, goals); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *Goals) Update(ctx context.Context, g core.Goal) (core.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals := r.loadLocked(ctx)
	i := indexOfGoal(goals, g.ID)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("goal %q: %w", g.ID, ErrNotFound)
	}
	goals[i] = g
	if err := r.store.Save(ctx, storage.KeyGoals, goals); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

// Delete removes the goal outright; nothing references goals.
func (r *Goals) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals := r.loadLocked(ctx)
	i := indexOfGoal(goals, id)
	if i < 0 {
		return fmt.Errorf("goal %q: %w", id, ErrNotFound)
	}
	goals = append(goals[:i], goals[i+1:]...)
	return r.store.Save(ctx, storage.KeyGoals, goals)
}

func (r *Goals) GetByID(ctx context.Context, id string) (*core.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.loadLocked(ctx) {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, nil
}

func (r *Goals) loadLocked(ctx context.Context) []core.Goal {
	var goals []core.Goal
	if err := r.store.Load(ctx, storage.KeyGoals, &goals); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "loading goals failed, treating as empty", "error", err)
		}
		return []core.Goal{}
	}
	return goals
}

func indexOfGoal(goals []core.Goal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}
