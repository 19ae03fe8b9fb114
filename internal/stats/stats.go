// Package stats derives reporting quantities from loaded collections.
// Nothing here is stored: budget progress, net worth and monthly summaries
// are recomputed on read from transactions and accounts.
package stats

import (
	"sort"
	"time"

	"moneta/internal/core"
)

// CategoryAmount is an amount aggregated by category id.
type CategoryAmount struct {
	CategoryID string
	Amount     core.Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Income     core.Money
	Expense    core.Money
	ByCategory []CategoryAmount // expense totals per category
}

// PeriodWindow returns the inclusive date range a budget covers. Monthly
// budgets run from the start date to the last day of that month, yearly
// budgets for one year minus a day, custom budgets to their explicit end.
// A custom budget missing its end collapses to the start day.
func PeriodWindow(b core.Budget) (time.Time, time.Time) {
	start, err := time.Parse("2006-01-02", b.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}
	}

	if b.EndDate != "" {
		if end, err := time.Parse("2006-01-02", b.EndDate); err == nil {
			return start, endOfDay(end)
		}
	}

	switch b.PeriodType {
	case core.Monthly:
		firstOfNext := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return start, endOfDay(firstOfNext.AddDate(0, 0, -1))
	case core.Yearly:
		return start, endOfDay(start.AddDate(1, 0, -1))
	default:
		return start, endOfDay(start)
	}
}

// Spent sums expense transactions matching the budget's category inside
// its period window.
func Spent(b core.Budget, transactions []core.Transaction) core.Money {
	start, end := PeriodWindow(b)
	var total core.Money
	for _, tx := range transactions {
		if tx.Type != core.Expense || tx.CategoryID != b.CategoryID {
			continue
		}
		d, err := time.Parse(time.RFC3339, tx.Date)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Remaining is the budget ceiling minus what was spent; negative when the
// budget is blown.
func Remaining(b core.Budget, transactions []core.Transaction) core.Money {
	return b.Amount.Sub(Spent(b, transactions))
}

// Progress is the spent fraction of the ceiling, clamped to 1.
func Progress(b core.Budget, transactions []core.Transaction) float64 {
	if b.Amount.Cents <= 0 {
		return 0
	}
	p := float64(Spent(b, transactions).Cents) / float64(b.Amount.Cents)
	if p > 1 {
		return 1
	}
	return p
}

// OverThreshold reports whether spending crossed the budget's alert
// threshold. Budgets without a threshold never alert.
func OverThreshold(b core.Budget, transactions []core.Transaction) bool {
	if b.AlertThreshold <= 0 {
		return false
	}
	return Progress(b, transactions) >= b.AlertThreshold
}

// CurrentPeriod filters budgets whose period covers now: monthly budgets
// starting in the current month, yearly and custom budgets whose window
// contains today.
func CurrentPeriod(budgets []core.Budget, now time.Time) []core.Budget {
	var out []core.Budget
	for _, b := range budgets {
		start, end := PeriodWindow(b)
		if start.IsZero() {
			continue
		}
		switch b.PeriodType {
		case core.Monthly:
			if start.Year() == now.Year() && start.Month() == now.Month() {
				out = append(out, b)
			}
		default:
			if !now.Before(start) && !now.After(end) {
				out = append(out, b)
			}
		}
	}
	return out
}

// NetWorth sums current balances of non-archived accounts flagged for
// inclusion.
func NetWorth(accounts []core.Account) core.Money {
	var total core.Money
	for _, a := range accounts {
		if a.IsArchived || !a.IncludeInNetWorth {
			continue
		}
		total = total.Add(a.CurrentBalance)
	}
	return total
}

// Summarize aggregates one month of activity. Transfers move value between
// accounts and are excluded from both totals.
func Summarize(transactions []core.Transaction, year, month int) MonthOverview {
	overview := MonthOverview{Year: year, Month: month}
	byCategory := make(map[string]core.Money)

	for _, tx := range transactions {
		d, err := time.Parse(time.RFC3339, tx.Date)
		if err != nil {
			continue
		}
		if d.Year() != year || int(d.Month()) != month {
			continue
		}
		switch tx.Type {
		case core.Income:
			overview.Income = overview.Income.Add(tx.Amount)
		case core.Expense:
			overview.Expense = overview.Expense.Add(tx.Amount)
			byCategory[tx.CategoryID] = byCategory[tx.CategoryID].Add(tx.Amount)
		}
	}

	for id, amount := range byCategory {
		overview.ByCategory = append(overview.ByCategory, CategoryAmount{CategoryID: id, Amount: amount})
	}
	sort.Slice(overview.ByCategory, func(i, j int) bool {
		if overview.ByCategory[i].Amount.Cents != overview.ByCategory[j].Amount.Cents {
			return overview.ByCategory[i].Amount.Cents > overview.ByCategory[j].Amount.Cents
		}
		return overview.ByCategory[i].CategoryID < overview.ByCategory[j].CategoryID
	})
	return overview
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}
