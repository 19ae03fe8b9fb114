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

type Categories struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewCategories(store *storage.Store) *Categories {
	return &Categories{store: store}
}

func (r *Categories) GetAll(ctx context.Context) ([]core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

func (r *Categories) Add(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("validate category: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = ident.New()
	categories := append(r.loadLocked(ctx), c)
	if err := r.store.Save(ctx, storage.KeyCategories, categories); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (r *Categories) Update(ctx context.Context, c core.Category) (core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories := r.loadLocked(ctx)
	i := indexOfCategory(categories, c.ID)
	if i < 0 {
		return core.Category{}, fmt.Errorf("category %q: %w", c.ID, ErrNotFound)
	}
	categories[i] = c
	if err := r.store.Save(ctx, storage.KeyCategories, categories); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// Delete archives the category; transactions keep their categoryId.
func (r *Categories) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories := r.loadLocked(ctx)
	i := indexOfCategory(categories, id)
	if i < 0 {
		return fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	categories[i].IsArchived = true
	return r.store.Save(ctx, storage.KeyCategories, categories)
}

func (r *Categories) GetByID(ctx context.Context, id string) (*core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.loadLocked(ctx) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *Categories) loadLocked(ctx context.Context) []core.Category {
	var categories []core.Category
	if err := r.store.Load(ctx, storage.KeyCategories, &categories); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "loading categories failed, treating as empty", "error", err)
		}
		return []core.Category{}
	}
	return categories
}

func indexOfCategory(categories []core.Category, id string) int {
	for i := range categories {
		if categories[i].ID == id {
			return i
		}
	}
	return -1
}
