package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneta/internal/backend"
	"moneta/internal/balance"
	"moneta/internal/config"
	"moneta/internal/core"
	"moneta/internal/events"
	applog "moneta/internal/log"
	"moneta/internal/repo"
	"moneta/internal/stats"
	"moneta/internal/storage"
	"moneta/internal/worker"
)

const usage = `moneta - personal finance tracker

Usage: moneta <command> [flags]

Commands:
  init             seed default data (idempotent, also runs on every start)
  accounts         list accounts
  account-add      add an account
  account-archive  archive an account (soft delete)
  categories       list categories
  tx-add           add a transaction
  tx-list          list transactions
  tx-delete        delete a transaction
  budgets          list budgets with spent/remaining/progress
  budget-add       add a budget
  goals            list savings goals
  goal-add         add a savings goal
  recalc           recompute all balances from transaction history
  networth         print net worth
  summary          print a month summary
  export           write a full data snapshot
  reset            delete all stored data
`

type app struct {
	store        *storage.Store
	accounts     *repo.Accounts
	categories   *repo.Categories
	transactions *repo.Transactions
	budgets      *repo.Budgets
	goals        *repo.Goals
	settings     *repo.Settings
	engine       *balance.Engine
	cleanup      []func() error
}

func main() {
	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ComponentCLI, applog.ParseLevel(cfg.LogLevel))
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.close(logger)

	if err := a.run(ctx, command, args); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*app, error) {
	be, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		return nil, err
	}

	a := &app{cleanup: []func() error{be.Cleanup}}
	a.store = storage.New(be.Store)

	// Guarantees non-null reads for every repository call below.
	if err := a.store.InitializeDefaultData(ctx); err != nil {
		return nil, fmt.Errorf("initialize default data: %w", err)
	}

	var publisher repo.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change events", "error", err)
		} else {
			publisher = client
			a.cleanup = append(a.cleanup, client.Close)
		}
	}

	a.accounts = repo.NewAccounts(a.store)
	a.categories = repo.NewCategories(a.store)
	a.budgets = repo.NewBudgets(a.store)
	a.goals = repo.NewGoals(a.store)
	a.settings = repo.NewSettings(a.store)
	a.engine = balance.NewEngine(a.accounts)
	a.transactions = repo.NewTransactions(a.store, a.engine, publisher)

	return a, nil
}

func (a *app) close(logger *applog.Logger) {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			logger.Warn("cleanup failed", "error", err)
		}
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "init":
		// Bootstrap already ran in newApp.
		fmt.Println("data initialized")
		return nil
	case "accounts":
		return a.listAccounts(ctx)
	case "account-add":
		return a.addAccount(ctx, args)
	case "account-archive":
		return a.archiveAccount(ctx, args)
	case "categories":
		return a.listCategories(ctx)
	case "tx-add":
		return a.addTransaction(ctx, args)
	case "tx-list":
		return a.listTransactions(ctx)
	case "tx-delete":
		return a.deleteTransaction(ctx, args)
	case "budgets":
		return a.listBudgets(ctx)
	case "budget-add":
		return a.addBudget(ctx, args)
	case "goals":
		return a.listGoals(ctx)
	case "goal-add":
		return a.addGoal(ctx, args)
	case "recalc":
		return a.recalculate(ctx)
	case "networth":
		return a.netWorth(ctx)
	case "summary":
		return a.summary(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "reset":
		return a.reset(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) listAccounts(ctx context.Context) error {
	accounts, err := a.accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		archived := ""
		if acc.IsArchived {
			archived = " (archived)"
		}
		fmt.Printf("%s  %-20s %-10s %10s %s%s\n",
			acc.ID, acc.Name, acc.Type, acc.CurrentBalance, acc.Currency, archived)
	}
	return nil
}

func (a *app) addAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("account-add", flag.ExitOnError)
	name := fs.String("name", "", "account name")
	accType := fs.String("type", "cash", "account type (cash|bank|savings|investment|debt|other)")
	subtype := fs.String("subtype", "", "optional subtype")
	opening := fs.String("opening", "0.00", "opening balance")
	currency := fs.String("currency", "USD", "currency code")
	excluded := fs.Bool("exclude-net-worth", false, "exclude from net worth")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cents := int64(0)
	if *opening != "" && *opening != "0" && *opening != "0.00" {
		var err error
		cents, err = core.ParseDecimalToCents(*opening)
		if err != nil {
			return fmt.Errorf("parse opening balance: %w", err)
		}
	}

	acc, err := a.accounts.Add(ctx, core.Account{
		Name:              *name,
		Type:              core.AccountType(*accType),
		Subtype:           *subtype,
		OpeningBalance:    core.Money{Cents: cents},
		Currency:          *currency,
		IncludeInNetWorth: !*excluded,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created account %s\n", acc.ID)
	return nil
}

func (a *app) archiveAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("account-archive", flag.ExitOnError)
	id := fs.String("id", "", "account id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.accounts.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("archived account %s\n", *id)
	return nil
}

func (a *app) listCategories(ctx context.Context) error {
	categories, err := a.categories.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		archived := ""
		if c.IsArchived {
			archived = " (archived)"
		}
		fmt.Printf("%s  %-20s %s%s\n", c.ID, c.Name, c.Type, archived)
	}
	return nil
}

func (a *app) addTransaction(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx-add", flag.ExitOnError)
	txType := fs.String("type", "expense", "transaction type (income|expense|transfer)")
	amount := fs.String("amount", "", "amount, e.g. 12.34")
	account := fs.String("account", "", "account id (income/expense)")
	from := fs.String("from", "", "source account id (transfer)")
	to := fs.String("to", "", "destination account id (transfer)")
	category := fs.String("category", "", "category id")
	desc := fs.String("desc", "", "description")
	note := fs.String("note", "", "optional note")
	date := fs.String("date", "", "ISO-8601 date, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}
	when := *date
	if when == "" {
		when = time.Now().UTC().Format(time.RFC3339)
	}

	tx, err := a.transactions.Add(ctx, core.Transaction{
		Type:          core.TransactionType(*txType),
		Date:          when,
		Amount:        core.Money{Cents: cents},
		AccountID:     *account,
		FromAccountID: *from,
		ToAccountID:   *to,
		CategoryID:    *category,
		Description:   *desc,
		Note:          *note,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created transaction %s\n", tx.ID)
	return nil
}

func (a *app) listTransactions(ctx context.Context) error {
	transactions, err := a.transactions.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, tx := range transactions {
		fmt.Printf("%s  %-10s %10s  %s  %s\n", tx.ID, tx.Type, tx.Amount, tx.Date, tx.Description)
	}
	return nil
}

func (a *app) deleteTransaction(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx-delete", flag.ExitOnError)
	id := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.transactions.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted transaction %s\n", *id)
	return nil
}

func (a *app) listBudgets(ctx context.Context) error {
	budgets, err := a.budgets.GetAll(ctx)
	if err != nil {
		return err
	}
	transactions, err := a.transactions.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, b := range budgets {
		spent := stats.Spent(b, transactions)
		remaining := stats.Remaining(b, transactions)
		progress := stats.Progress(b, transactions)
		fmt.Printf("%s  category=%s  %s/%s  remaining=%s  %.0f%%\n",
			b.ID, b.CategoryID, spent, b.Amount, remaining, progress*100)
	}
	return nil
}

func (a *app) addBudget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget-add", flag.ExitOnError)
	category := fs.String("category", "", "category id")
	period := fs.String("period", "monthly", "period type (monthly|yearly|custom)")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD, required for custom)")
	amount := fs.String("amount", "", "budget ceiling, e.g. 300.00")
	threshold := fs.Float64("threshold", 0, "alert threshold, e.g. 0.8")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	b, err := a.budgets.Add(ctx, core.Budget{
		CategoryID:     *category,
		PeriodType:     core.PeriodType(*period),
		StartDate:      *start,
		EndDate:        *end,
		Amount:         core.Money{Cents: cents},
		AlertThreshold: *threshold,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created budget %s\n", b.ID)
	return nil
}

func (a *app) listGoals(ctx context.Context) error {
	goals, err := a.goals.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, g := range goals {
		status := ""
		if g.IsCompleted {
			status = " (completed)"
		}
		fmt.Printf("%s  %-20s %s/%s%s\n", g.ID, g.Name, g.CurrentAmount, g.TargetAmount, status)
	}
	return nil
}

func (a *app) addGoal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goal-add", flag.ExitOnError)
	name := fs.String("name", "", "goal name")
	target := fs.String("target", "", "target amount, e.g. 1000.00")
	targetDate := fs.String("target-date", "", "optional target date (YYYY-MM-DD)")
	account := fs.String("account", "", "optional linked account id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*target)
	if err != nil {
		return fmt.Errorf("parse target amount: %w", err)
	}

	g, err := a.goals.Add(ctx, core.Goal{
		Name:            *name,
		TargetAmount:    core.Money{Cents: cents},
		StartDate:       time.Now().UTC().Format("2006-01-02"),
		TargetDate:      *targetDate,
		LinkedAccountID: *account,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created goal %s\n", g.ID)
	return nil
}

func (a *app) recalculate(ctx context.Context) error {
	transactions, err := a.transactions.GetAll(ctx)
	if err != nil {
		return err
	}
	if err := a.engine.RecalculateAll(ctx, transactions); err != nil {
		return err
	}
	fmt.Println("balances recalculated")
	return a.listAccounts(ctx)
}

func (a *app) netWorth(ctx context.Context) error {
	accounts, err := a.accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	settings, err := a.settings.Get(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("net worth: %s %s\n", stats.NetWorth(accounts), settings.Currency)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "year")
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	transactions, err := a.transactions.GetAll(ctx)
	if err != nil {
		return err
	}
	overview := stats.Summarize(transactions, *year, *month)
	fmt.Printf("%d-%02d  income=%s  expense=%s\n", overview.Year, overview.Month, overview.Income, overview.Expense)
	for _, ca := range overview.ByCategory {
		fmt.Printf("  %-24s %s\n", ca.CategoryID, ca.Amount)
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "./data/backup.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := worker.NewBackupWorker(a.store, nil, *out, time.Hour)
	if err := w.WriteSnapshot(ctx); err != nil {
		return err
	}
	fmt.Printf("exported snapshot to %s\n", *out)
	return nil
}

func (a *app) reset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm deletion of all data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("reset deletes all data; re-run with -yes to confirm")
	}
	if err := a.store.ResetAllData(ctx); err != nil {
		return err
	}
	fmt.Println("all data reset")
	return nil
}
