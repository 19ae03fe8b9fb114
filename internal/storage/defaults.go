package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneta/internal/core"
	"moneta/internal/ident"
)

// DefaultSettings returns the settings written on first run.
func DefaultSettings() core.Settings {
	return core.Settings{
		Currency:             "USD",
		StartDayOfMonth:      1,
		Theme:                "system",
		PasscodeEnabled:      false,
		BiometricEnabled:     false,
		HideNetWorth:         false,
		NotificationsEnabled: true,
		BackupRemindDays:     30,
	}
}

// DefaultAccounts returns the seed accounts. IDs are generated per call, so
// this must only run when the accounts key is absent.
func DefaultAccounts() []core.Account {
	return []core.Account{
		{
			ID:                ident.New(),
			Name:              "Cash",
			Type:              core.Cash,
			Currency:          "USD",
			Icon:              "cash",
			Color:             "#4CAF50",
			IncludeInNetWorth: true,
		},
		{
			ID:                ident.New(),
			Name:              "Bank Account",
			Type:              core.Bank,
			Currency:          "USD",
			Icon:              "bank",
			Color:             "#2196F3",
			IncludeInNetWorth: true,
		},
	}
}

// DefaultCategories returns the seed category taxonomy.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: ident.New(), Name: "Salary", Type: core.Income, Icon: "cash", Color: "#4CAF50"},
		{ID: ident.New(), Name: "Gifts", Type: core.Income, Icon: "gift", Color: "#9C27B0"},
		{ID: ident.New(), Name: "Interest", Type: core.Income, Icon: "percent", Color: "#3F51B5"},
		{ID: ident.New(), Name: "Food & Dining", Type: core.Expense, Icon: "food", Color: "#FF5722"},
		{ID: ident.New(), Name: "Transportation", Type: core.Expense, Icon: "car", Color: "#607D8B"},
		{ID: ident.New(), Name: "Housing", Type: core.Expense, Icon: "home", Color: "#795548"},
		{ID: ident.New(), Name: "Utilities", Type: core.Expense, Icon: "flash", Color: "#FFC107"},
		{ID: ident.New(), Name: "Shopping", Type: core.Expense, Icon: "cart", Color: "#E91E63"},
		{ID: ident.New(), Name: "Entertainment", Type: core.Expense, Icon: "movie", Color: "#9E9E9E"},
	}
}

// IsFirstRun reports whether no settings record exists yet.
func (s *Store) IsFirstRun(ctx context.Context) (bool, error) {
	var settings core.Settings
	err := s.Load(ctx, KeySettings, &settings)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		// Assume first run when the settings record is unreadable.
		slog.WarnContext(ctx, "first-run check failed, assuming first run", "error", err)
		return true, nil
	}
	return false, nil
}

// InitializeDefaultData seeds each absent key with its built-in default.
// Existing data is never touched, so the call is idempotent and safe on
// every start.
func (s *Store) InitializeDefaultData(ctx context.Context) error {
	seeds := []struct {
		key   string
		value func() any
	}{
		{KeySettings, func() any { return DefaultSettings() }},
		{KeyAccounts, func() any { return DefaultAccounts() }},
		{KeyCategories, func() any { return DefaultCategories() }},
		{KeyTransactions, func() any { return []core.Transaction{} }},
		{KeyBudgets, func() any { return []core.Budget{} }},
		{KeyGoals, func() any { return []core.Goal{} }},
	}

	for _, seed := range seeds {
		var probe any
		err := s.Load(ctx, seed.key, &probe)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("probe %q: %w", seed.key, err)
		}
		if err := s.Save(ctx, seed.key, seed.value()); err != nil {
			return fmt.Errorf("seed %q: %w", seed.key, err)
		}
		slog.InfoContext(ctx, "seeded default data", "key", seed.key)
	}
	return nil
}

// Snapshot assembles the aggregate export shape from every collection.
// Absent collections come back as their zero values.
func (s *Store) Snapshot(ctx context.Context) (core.AppData, error) {
	data := core.AppData{
		Settings:       DefaultSettings(),
		Version:        core.DataVersion,
		LastBackupDate: time.Now().UTC().Format(time.RFC3339),
	}

	var settings core.Settings
	if err := s.Load(ctx, KeySettings, &settings); err == nil {
		data.Settings = settings
	}

	loads := []struct {
		key  string
		dest any
	}{
		{KeyAccounts, &data.Accounts},
		{KeyCategories, &data.Categories},
		{KeyTransactions, &data.Transactions},
		{KeyBudgets, &data.Budgets},
		{KeyGoals, &data.Goals},
	}
	for _, l := range loads {
		if err := s.Load(ctx, l.key, l.dest); err != nil && !errors.Is(err, ErrNotFound) {
			return core.AppData{}, fmt.Errorf("snapshot %q: %w", l.key, err)
		}
	}
	return data, nil
}
