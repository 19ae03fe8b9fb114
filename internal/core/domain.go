package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Cash       AccountType = "cash"
	Bank       AccountType = "bank"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
	Debt       AccountType = "debt"
	Other      AccountType = "other"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Monthly PeriodType = "monthly"
	Yearly  PeriodType = "yearly"
	Custom  PeriodType = "custom"
)

type (
	AccountType     string
	TransactionType string
	PeriodType      string

	// Account is a money container. OpeningBalance is fixed at creation;
	// CurrentBalance is the running balance maintained by the balance engine.
	Account struct {
		ID                string      `json:"id"`
		Name              string      `json:"name"`
		Type              AccountType `json:"type"`
		Subtype           string      `json:"subtype,omitempty"`
		OpeningBalance    Money       `json:"openingBalance"`
		CurrentBalance    Money       `json:"currentBalance"`
		Currency          string      `json:"currency"`
		Icon              string      `json:"icon,omitempty"`
		Color             string      `json:"color,omitempty"`
		IncludeInNetWorth bool        `json:"includeInNetWorth"`
		IsArchived        bool        `json:"isArchived"`
	}

	// Transaction amount is always positive; direction is implied by Type.
	// AccountID is the primary account for income/expense. FromAccountID and
	// ToAccountID are set only for transfers.
	Transaction struct {
		ID             string          `json:"id"`
		Type           TransactionType `json:"type"`
		Date           string          `json:"date"` // ISO-8601, e.g. "2025-05-07T22:23:00Z"
		Amount         Money           `json:"amount"`
		AccountID      string          `json:"accountId,omitempty"`
		FromAccountID  string          `json:"fromAccountId,omitempty"`
		ToAccountID    string          `json:"toAccountId,omitempty"`
		CategoryID     string          `json:"categoryId,omitempty"`
		Description    string          `json:"description"`
		Note           string          `json:"note,omitempty"`
		PictureURI     string          `json:"pictureUri,omitempty"`
		IsRecurring    bool            `json:"isRecurring,omitempty"`
		RecurrenceRule string          `json:"recurrenceRule,omitempty"`
		Tags           []string        `json:"tags,omitempty"`
	}

	// Category is specific to either income or expense transactions.
	// ParentID allows one level of subcategory nesting.
	Category struct {
		ID         string          `json:"id"`
		Name       string          `json:"name"`
		Type       TransactionType `json:"type"`
		ParentID   string          `json:"parentId,omitempty"`
		Icon       string          `json:"icon,omitempty"`
		Color      string          `json:"color,omitempty"`
		IsArchived bool            `json:"isArchived"`
	}

	// Budget is a spending ceiling for a category over a period. Spent,
	// remaining and progress are derived on read, never stored.
	Budget struct {
		ID             string     `json:"id"`
		CategoryID     string     `json:"categoryId"`
		PeriodType     PeriodType `json:"periodType"`
		StartDate      string     `json:"startDate"` // "YYYY-MM-DD"
		EndDate        string     `json:"endDate,omitempty"`
		Amount         Money      `json:"amount"`
		AlertThreshold float64    `json:"alertThreshold,omitempty"` // e.g. 0.8 for 80%
	}

	Goal struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		TargetAmount    Money  `json:"targetAmount"`
		CurrentAmount   Money  `json:"currentAmount"`
		StartDate       string `json:"startDate"`
		TargetDate      string `json:"targetDate,omitempty"`
		Description     string `json:"description,omitempty"`
		Icon            string `json:"icon,omitempty"`
		Color           string `json:"color,omitempty"`
		IsCompleted     bool   `json:"isCompleted"`
		IsArchived      bool   `json:"isArchived"`
		LinkedAccountID string `json:"linkedAccountId,omitempty"`
	}

	Settings struct {
		Currency             string `json:"currency"`
		StartDayOfMonth      int    `json:"startDayOfMonth"`
		Theme                string `json:"theme"` // light | dark | system
		PasscodeEnabled      bool   `json:"passcodeEnabled"`
		BiometricEnabled     bool   `json:"biometricEnabled"`
		DefaultAccount       string `json:"defaultAccount,omitempty"`
		HideNetWorth         bool   `json:"hideNetWorth"`
		NotificationsEnabled bool   `json:"notificationsEnabled"`
		BackupRemindDays     int    `json:"backupRemindDays"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid type")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyDescription    = errors.New("empty description")
	ErrMissingAccount      = errors.New("missing account id")
	ErrSameTransferAccount = errors.New("transfer accounts must be distinct")
)

func (t AccountType) IsValid() bool {
	switch t {
	case Cash, Bank, Savings, Investment, Debt, Other:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (p PeriodType) IsValid() bool {
	switch p {
	case Monthly, Yearly, Custom:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(a.Currency) == "" {
		return errors.New("empty currency")
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse(time.RFC3339, t.Date); err != nil {
		return ErrInvalidDate
	}
	switch t.Type {
	case Transfer:
		if t.FromAccountID == "" || t.ToAccountID == "" {
			return ErrMissingAccount
		}
		if t.FromAccountID == t.ToAccountID {
			return ErrSameTransferAccount
		}
	default:
		if t.AccountID == "" {
			return ErrMissingAccount
		}
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Type != Income && c.Type != Expense {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.PeriodType.IsValid() {
		return ErrInvalidType
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", b.StartDate); err != nil {
		return ErrInvalidDate
	}
	if b.PeriodType == Custom {
		end, err := time.Parse("2006-01-02", b.EndDate)
		if err != nil {
			return errors.New("custom period requires an end date")
		}
		start, _ := time.Parse("2006-01-02", b.StartDate)
		if end.Before(start) {
			return errors.New("end date must not precede start date")
		}
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
