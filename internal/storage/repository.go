// Package storage persists users and their financial records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fincoach/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a user or record does not exist for the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// timeLayout keeps the original offset so month grouping survives a round trip.
const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, username string, creditScore *int) (core.User, error) {
	u, err := r.queries.CreateUser(ctx, CreateUserParams{
		Username:    username,
		CreditScore: nullScore(creditScore),
		CreatedAt:   r.now().UTC().Format(timeLayout),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("create user %q: %w", username, ErrConflict)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite", "user_id", u.ID)
	return toCoreUser(u)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, wrapNotFound(err, "get user")
	}
	return toCoreUser(u)
}

func (r *SQLiteRepository) UpdateCreditScore(ctx context.Context, id int64, score int) error {
	n, err := r.queries.UpdateCreditScore(ctx, UpdateCreditScoreParams{
		CreditScore: sql.NullInt64{Int64: int64(score), Valid: true},
		ID:          id,
	})
	if err != nil {
		return fmt.Errorf("update credit score: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update credit score for user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	ids, err := r.queries.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:           t.ID,
		UserID:       userID,
		AmountCents:  core.FromFloat(t.Amount).Cents,
		Description:  t.Description,
		Category:     t.Category,
		OccurredAt:   t.Date.Format(timeLayout),
		OccurredUnix: t.Date.UnixNano(),
		CreatedAt:    r.now().UTC().Format(timeLayout),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"user_id", userID,
		"transaction_id", t.ID,
		"category", t.Category)
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID int64, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, wrapNotFound(err, "get transaction")
	}
	return toCoreTransaction(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	f = f.Normalize()
	arg := ListTransactionsParams{
		UserID:   userID,
		Category: f.Category,
		Limit:    int64(f.Limit),
		Offset:   int64(f.Offset),
	}
	if !f.From.IsZero() {
		v := f.From.UnixNano()
		arg.FromUnix = &v
	}
	if !f.To.IsZero() {
		v := f.To.UnixNano()
		arg.ToUnix = &v
	}
	if f.MinAmount != nil {
		v := core.FromFloat(*f.MinAmount).Cents
		arg.MinCents = &v
	}
	if f.MaxAmount != nil {
		v := core.FromFloat(*f.MaxAmount).Cents
		arg.MaxCents = &v
	}

	rows, err := r.queries.ListTransactions(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID int64, t core.Transaction) error {
	n, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		AmountCents:  core.FromFloat(t.Amount).Cents,
		Description:  t.Description,
		Category:     t.Category,
		OccurredAt:   t.Date.Format(timeLayout),
		OccurredUnix: t.Date.UnixNano(),
		UserID:       userID,
		ID:           t.ID,
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update transaction %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID int64, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete transaction %s: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, userID int64, a core.Account) (core.Account, error) {
	err := r.queries.CreateAccount(ctx, Account{
		ID:           a.ID,
		UserID:       userID,
		Name:         a.Name,
		BalanceCents: core.FromFloat(a.Balance).Cents,
		AccountType:  a.Type,
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]core.Account, len(rows))
	for i, a := range rows {
		accounts[i] = core.Account{
			ID:      a.ID,
			Name:    a.Name,
			Balance: core.Money{Cents: a.BalanceCents}.Float(),
			Type:    a.AccountType,
		}
	}
	return accounts, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, userID int64, b core.Budget) (core.Budget, error) {
	row, err := r.queries.CreateBudget(ctx, CreateBudgetParams{
		UserID:      userID,
		Category:    b.Category,
		AmountCents: core.FromFloat(b.Amount).Cents,
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return core.Budget{Category: row.Category, Amount: core.Money{Cents: row.AmountCents}.Float()}, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	budgets := make([]core.Budget, len(rows))
	for i, b := range rows {
		budgets[i] = core.Budget{Category: b.Category, Amount: core.Money{Cents: b.AmountCents}.Float()}
	}
	return budgets, nil
}

func (r *SQLiteRepository) CreateBillReminder(ctx context.Context, b core.BillReminder) (core.BillReminder, error) {
	row, err := r.queries.CreateBillReminder(ctx, CreateBillReminderParams{
		UserID:      b.UserID,
		Description: b.Description,
		AmountCents: core.FromFloat(b.Amount).Cents,
		DueDate:     b.DueDate.Format(timeLayout),
		DueUnix:     b.DueDate.UnixNano(),
	})
	if err != nil {
		return core.BillReminder{}, fmt.Errorf("create bill reminder: %w", err)
	}
	return toCoreReminder(row)
}

func (r *SQLiteRepository) ListBillReminders(ctx context.Context, userID int64) ([]core.BillReminder, error) {
	rows, err := r.queries.ListBillReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bill reminders: %w", err)
	}
	reminders := make([]core.BillReminder, 0, len(rows))
	for _, row := range rows {
		rem, err := toCoreReminder(row)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, nil
}

// Snapshot gathers everything the analyzer needs for one user.
func (r *SQLiteRepository) Snapshot(ctx context.Context, userID int64) (core.FinancialData, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return core.FinancialData{}, err
	}

	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{UserID: userID, Ascending: true})
	if err != nil {
		return core.FinancialData{}, fmt.Errorf("snapshot transactions: %w", err)
	}
	txs, err := toCoreTransactions(rows)
	if err != nil {
		return core.FinancialData{}, err
	}
	accounts, err := r.ListAccounts(ctx, userID)
	if err != nil {
		return core.FinancialData{}, err
	}
	budgets, err := r.ListBudgets(ctx, userID)
	if err != nil {
		return core.FinancialData{}, err
	}

	return core.FinancialData{
		UserID:       strconv.FormatInt(userID, 10),
		Transactions: txs,
		Accounts:     accounts,
		Budgets:      budgets,
		CreditScore:  user.CreditScore,
		LastUpdated:  r.now(),
	}, nil
}

func nullScore(score *int) sql.NullInt64 {
	if score == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*score), Valid: true}
}

func wrapNotFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toCoreUser(u User) (core.User, error) {
	created, err := time.Parse(timeLayout, u.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("parse user created_at: %w", err)
	}
	user := core.User{ID: u.ID, Username: u.Username, CreatedAt: created}
	if u.CreditScore.Valid {
		score := int(u.CreditScore.Int64)
		user.CreditScore = &score
	}
	return user, nil
}

func toCoreTransaction(t Transaction) (core.Transaction, error) {
	date, err := time.Parse(timeLayout, t.OccurredAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", t.OccurredAt, err)
	}
	return core.Transaction{
		ID:          t.ID,
		Amount:      core.Money{Cents: t.AmountCents}.Float(),
		Description: t.Description,
		Category:    t.Category,
		Date:        date,
	}, nil
}

func toCoreTransactions(rows []Transaction) ([]core.Transaction, error) {
	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func toCoreReminder(b BillReminder) (core.BillReminder, error) {
	due, err := time.Parse(timeLayout, b.DueDate)
	if err != nil {
		return core.BillReminder{}, fmt.Errorf("parse due date %q: %w", b.DueDate, err)
	}
	return core.BillReminder{
		ID:          b.ID,
		UserID:      b.UserID,
		Description: b.Description,
		Amount:      core.Money{Cents: b.AmountCents}.Float(),
		DueDate:     due,
	}, nil
}
