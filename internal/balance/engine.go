// Package balance keeps each account's running balance consistent with the
// transaction history, applying incremental deltas as transactions are
// added, edited and deleted.
package balance

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/core"
)

// AccountUpdater is the port the engine mutates accounts through. UpdateAll
// must run fn inside the account collection's critical section, as one
// load -> mutate -> save pass.
type AccountUpdater interface {
	UpdateAll(ctx context.Context, fn func(accounts []core.Account) ([]core.Account, error)) error
}

type Engine struct {
	accounts AccountUpdater
}

func NewEngine(accounts AccountUpdater) *Engine {
	return &Engine{accounts: accounts}
}

// UpdateForTransaction adjusts account balances for one transaction
// mutation. Call patterns:
//
//	add:    UpdateForTransaction(ctx, newTx, nil)
//	update: UpdateForTransaction(ctx, newTx, oldTx)  revert old, then apply new
//	delete: UpdateForTransaction(ctx, nil, oldTx)    revert only
//
// Revert and apply run in a single pass over one in-memory account slice,
// so an edit that moves amount, type or account nets out in one save.
func (e *Engine) UpdateForTransaction(ctx context.Context, newTx, oldTx *core.Transaction) error {
	err := e.accounts.UpdateAll(ctx, func(accounts []core.Account) ([]core.Account, error) {
		if oldTx != nil {
			Revert(accounts, *oldTx)
		}
		if newTx != nil {
			Apply(accounts, *newTx)
		}
		return accounts, nil
	})
	if err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	return nil
}

// RecalculateAll recomputes every account's CurrentBalance from scratch:
// OpeningBalance plus the effect of every stored transaction. Idempotent
// and authoritative, unlike the incremental path; this is the repair tool
// for drift after a partial failure.
func (e *Engine) RecalculateAll(ctx context.Context, transactions []core.Transaction) error {
	err := e.accounts.UpdateAll(ctx, func(accounts []core.Account) ([]core.Account, error) {
		for i := range accounts {
			accounts[i].CurrentBalance = accounts[i].OpeningBalance
		}
		for _, tx := range transactions {
			Apply(accounts, tx)
		}
		return accounts, nil
	})
	if err != nil {
		return fmt.Errorf("recalculate balances: %w", err)
	}
	slog.InfoContext(ctx, "recalculated all account balances", "transactions", len(transactions))
	return nil
}

// Apply mutates balances to reflect tx. An account id that does not resolve
// is skipped silently, including a single side of a transfer; downstream
// delete flows rely on the no-op.
func Apply(accounts []core.Account, tx core.Transaction) {
	switch tx.Type {
	case core.Income:
		if a := find(accounts, tx.AccountID); a != nil {
			a.CurrentBalance = a.CurrentBalance.Add(tx.Amount)
		}
	case core.Expense:
		if a := find(accounts, tx.AccountID); a != nil {
			a.CurrentBalance = a.CurrentBalance.Sub(tx.Amount)
		}
	case core.Transfer:
		if from := find(accounts, tx.FromAccountID); from != nil {
			from.CurrentBalance = from.CurrentBalance.Sub(tx.Amount)
		}
		if to := find(accounts, tx.ToAccountID); to != nil {
			to.CurrentBalance = to.CurrentBalance.Add(tx.Amount)
		}
	}
}

// Revert undoes a previously applied tx. Exact inverse of Apply: the same
// branch with the sign negated.
func Revert(accounts []core.Account, tx core.Transaction) {
	switch tx.Type {
	case core.Income:
		if a := find(accounts, tx.AccountID); a != nil {
			a.CurrentBalance = a.CurrentBalance.Sub(tx.Amount)
		}
	case core.Expense:
		if a := find(accounts, tx.AccountID); a != nil {
			a.CurrentBalance = a.CurrentBalance.Add(tx.Amount)
		}
	case core.Transfer:
		if from := find(accounts, tx.FromAccountID); from != nil {
			from.CurrentBalance = from.CurrentBalance.Add(tx.Amount)
		}
		if to := find(accounts, tx.ToAccountID); to != nil {
			to.CurrentBalance = to.CurrentBalance.Sub(tx.Amount)
		}
	}
}

// find matches archived accounts too: archiving never excludes an account
// from balance maintenance.
func find(accounts []core.Account, id string) *core.Account {
	if id == "" {
		return nil
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
