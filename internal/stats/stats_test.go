package stats

import (
	"testing"
	"time"

	"moneta/internal/core"
)

func expenseOn(date, category string, cents int64) core.Transaction {
	return core.Transaction{
		Type: core.Expense, Date: date, CategoryID: category,
		Amount: core.Money{Cents: cents}, AccountID: "a1", Description: "x",
	}
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		name      string
		budget    core.Budget
		wantStart string
		wantEnd   string
	}{
		{
			"monthly runs to end of month",
			core.Budget{PeriodType: core.Monthly, StartDate: "2025-02-01"},
			"2025-02-01", "2025-02-28",
		},
		{
			"monthly in leap february",
			core.Budget{PeriodType: core.Monthly, StartDate: "2024-02-10"},
			"2024-02-10", "2024-02-29",
		},
		{
			"yearly runs one year minus a day",
			core.Budget{PeriodType: core.Yearly, StartDate: "2025-03-15"},
			"2025-03-15", "2026-03-14",
		},
		{
			"explicit end wins over period type",
			core.Budget{PeriodType: core.Monthly, StartDate: "2025-05-01", EndDate: "2025-05-10"},
			"2025-05-01", "2025-05-10",
		},
		{
			"custom without end collapses to start day",
			core.Budget{PeriodType: core.Custom, StartDate: "2025-05-01"},
			"2025-05-01", "2025-05-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PeriodWindow(tt.budget)
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if end.Hour() != 23 || end.Minute() != 59 {
				t.Errorf("end not at end of day: %s", end)
			}
		})
	}

	start, end := PeriodWindow(core.Budget{PeriodType: core.Monthly, StartDate: "bad"})
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("unparseable start date should yield zero window, got %s..%s", start, end)
	}
}

func TestSpentRemainingProgress(t *testing.T) {
	budget := core.Budget{
		CategoryID: "food",
		PeriodType: core.Monthly,
		StartDate:  "2025-05-01",
		Amount:     core.Money{Cents: 30000},
	}
	transactions := []core.Transaction{
		expenseOn("2025-05-03T12:00:00Z", "food", 10000),
		expenseOn("2025-05-31T23:00:00Z", "food", 5000),   // last day counts
		expenseOn("2025-06-01T00:00:00Z", "food", 9999),   // next month excluded
		expenseOn("2025-05-10T12:00:00Z", "travel", 2000), // other category excluded
		{ // income in the category never counts as spending
			Type: core.Income, Date: "2025-05-05T12:00:00Z", CategoryID: "food",
			Amount: core.Money{Cents: 700}, AccountID: "a1", Description: "refund",
		},
	}

	if got := Spent(budget, transactions); got.Cents != 15000 {
		t.Errorf("Spent = %d, want 15000", got.Cents)
	}
	if got := Remaining(budget, transactions); got.Cents != 15000 {
		t.Errorf("Remaining = %d, want 15000", got.Cents)
	}
	if got := Progress(budget, transactions); got != 0.5 {
		t.Errorf("Progress = %v, want 0.5", got)
	}
}

func TestRemainingGoesNegativeWhenBlown(t *testing.T) {
	budget := core.Budget{
		CategoryID: "food", PeriodType: core.Monthly,
		StartDate: "2025-05-01", Amount: core.Money{Cents: 1000},
	}
	transactions := []core.Transaction{expenseOn("2025-05-02T12:00:00Z", "food", 2500)}

	if got := Remaining(budget, transactions); got.Cents != -1500 {
		t.Errorf("Remaining = %d, want -1500", got.Cents)
	}
	if got := Progress(budget, transactions); got != 1 {
		t.Errorf("Progress = %v, want clamped 1", got)
	}
}

func TestOverThreshold(t *testing.T) {
	budget := core.Budget{
		CategoryID: "food", PeriodType: core.Monthly,
		StartDate: "2025-05-01", Amount: core.Money{Cents: 10000},
		AlertThreshold: 0.8,
	}

	under := []core.Transaction{expenseOn("2025-05-02T12:00:00Z", "food", 7999)}
	if OverThreshold(budget, under) {
		t.Error("alerted below threshold")
	}

	at := []core.Transaction{expenseOn("2025-05-02T12:00:00Z", "food", 8000)}
	if !OverThreshold(budget, at) {
		t.Error("did not alert at threshold")
	}

	budget.AlertThreshold = 0
	if OverThreshold(budget, at) {
		t.Error("alerted with no threshold configured")
	}
}

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: "this-month", PeriodType: core.Monthly, StartDate: "2025-05-01"},
		{ID: "last-month", PeriodType: core.Monthly, StartDate: "2025-04-01"},
		{ID: "year", PeriodType: core.Yearly, StartDate: "2025-01-01"},
		{ID: "past-custom", PeriodType: core.Custom, StartDate: "2025-03-01", EndDate: "2025-03-31"},
		{ID: "broken", PeriodType: core.Monthly, StartDate: "oops"},
	}

	got := CurrentPeriod(budgets, now)
	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	if len(ids) != 2 || ids[0] != "this-month" || ids[1] != "year" {
		t.Errorf("CurrentPeriod = %v, want [this-month year]", ids)
	}
}

func TestNetWorth(t *testing.T) {
	accounts := []core.Account{
		{ID: "a", CurrentBalance: core.Money{Cents: 10000}, IncludeInNetWorth: true},
		{ID: "b", CurrentBalance: core.Money{Cents: -2500}, IncludeInNetWorth: true},
		{ID: "c", CurrentBalance: core.Money{Cents: 99999}, IncludeInNetWorth: false},
		{ID: "d", CurrentBalance: core.Money{Cents: 5000}, IncludeInNetWorth: true, IsArchived: true},
	}

	if got := NetWorth(accounts); got.Cents != 7500 {
		t.Errorf("NetWorth = %d, want 7500", got.Cents)
	}
	if got := NetWorth(nil); got.Cents != 0 {
		t.Errorf("NetWorth(nil) = %d, want 0", got.Cents)
	}
}

func TestSummarize(t *testing.T) {
	transactions := []core.Transaction{
		{Type: core.Income, Date: "2025-05-01T09:00:00Z", Amount: core.Money{Cents: 500000}, AccountID: "a1", Description: "salary"},
		expenseOn("2025-05-03T12:00:00Z", "food", 12000),
		expenseOn("2025-05-14T12:00:00Z", "food", 8000),
		expenseOn("2025-05-20T12:00:00Z", "travel", 30000),
		expenseOn("2025-04-20T12:00:00Z", "food", 7777), // wrong month
		{ // transfers never count as income or expense
			Type: core.Transfer, Date: "2025-05-05T12:00:00Z", Amount: core.Money{Cents: 100000},
			FromAccountID: "a1", ToAccountID: "a2", Description: "to savings",
		},
	}

	overview := Summarize(transactions, 2025, 5)
	if overview.Income.Cents != 500000 {
		t.Errorf("Income = %d, want 500000", overview.Income.Cents)
	}
	if overview.Expense.Cents != 50000 {
		t.Errorf("Expense = %d, want 50000", overview.Expense.Cents)
	}

	if len(overview.ByCategory) != 2 {
		t.Fatalf("ByCategory = %+v, want 2 entries", overview.ByCategory)
	}
	// Sorted by amount descending.
	if overview.ByCategory[0].CategoryID != "travel" || overview.ByCategory[0].Amount.Cents != 30000 {
		t.Errorf("ByCategory[0] = %+v", overview.ByCategory[0])
	}
	if overview.ByCategory[1].CategoryID != "food" || overview.ByCategory[1].Amount.Cents != 20000 {
		t.Errorf("ByCategory[1] = %+v", overview.ByCategory[1])
	}
}
