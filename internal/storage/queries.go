package storage

import (
	"context"
	"database/sql"
	"strings"
)

const createUser = `
INSERT INTO users (username, credit_score, created_at)
VALUES (?, ?, ?)
RETURNING id, username, credit_score, created_at
`

type CreateUserParams struct {
	Username    string
	CreditScore sql.NullInt64
	CreatedAt   string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Username, arg.CreditScore, arg.CreatedAt)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.CreditScore, &i.CreatedAt)
	return i, err
}

const getUser = `
SELECT id, username, credit_score, created_at FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.CreditScore, &i.CreatedAt)
	return i, err
}

const updateCreditScore = `
UPDATE users SET credit_score = ? WHERE id = ?
`

type UpdateCreditScoreParams struct {
	CreditScore sql.NullInt64
	ID          int64
}

func (q *Queries) UpdateCreditScore(ctx context.Context, arg UpdateCreditScoreParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCreditScore, arg.CreditScore, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listUserIDs = `
SELECT id FROM users ORDER BY id
`

func (q *Queries) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listUserIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTransaction = `
INSERT INTO transactions (id, user_id, amount_cents, description, category, occurred_at, occurred_unix, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateTransactionParams struct {
	ID           string
	UserID       int64
	AmountCents  int64
	Description  string
	Category     string
	OccurredAt   string
	OccurredUnix int64
	CreatedAt    string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID,
		arg.UserID,
		arg.AmountCents,
		arg.Description,
		arg.Category,
		arg.OccurredAt,
		arg.OccurredUnix,
		arg.CreatedAt,
	)
	return err
}

const transactionColumns = `id, user_id, amount_cents, description, category, occurred_at, occurred_unix, created_at`

const getTransaction = `
SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? AND id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, userID int64, id string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, userID, id)
	var i Transaction
	err := scanTransaction(row, &i)
	return i, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner, i *Transaction) error {
	return row.Scan(
		&i.ID,
		&i.UserID,
		&i.AmountCents,
		&i.Description,
		&i.Category,
		&i.OccurredAt,
		&i.OccurredUnix,
		&i.CreatedAt,
	)
}

// ListTransactionsParams carries optional bounds; nil pointers and empty strings are ignored.
type ListTransactionsParams struct {
	UserID    int64
	FromUnix  *int64
	ToUnix    *int64
	Category  string
	MinCents  *int64
	MaxCents  *int64
	Ascending bool
	Limit     int64
	Offset    int64
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	var sb strings.Builder
	args := []interface{}{arg.UserID}
	sb.WriteString("SELECT " + transactionColumns + " FROM transactions WHERE user_id = ?")
	if arg.FromUnix != nil {
		sb.WriteString(" AND occurred_unix >= ?")
		args = append(args, *arg.FromUnix)
	}
	if arg.ToUnix != nil {
		sb.WriteString(" AND occurred_unix <= ?")
		args = append(args, *arg.ToUnix)
	}
	if arg.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, arg.Category)
	}
	if arg.MinCents != nil {
		sb.WriteString(" AND amount_cents >= ?")
		args = append(args, *arg.MinCents)
	}
	if arg.MaxCents != nil {
		sb.WriteString(" AND amount_cents <= ?")
		args = append(args, *arg.MaxCents)
	}
	if arg.Ascending {
		sb.WriteString(" ORDER BY occurred_unix ASC, id ASC")
	} else {
		sb.WriteString(" ORDER BY occurred_unix DESC, id ASC")
	}
	if arg.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, arg.Limit, arg.Offset)
	}

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := scanTransaction(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `
UPDATE transactions
SET amount_cents = ?, description = ?, category = ?, occurred_at = ?, occurred_unix = ?
WHERE user_id = ? AND id = ?
`

type UpdateTransactionParams struct {
	AmountCents  int64
	Description  string
	Category     string
	OccurredAt   string
	OccurredUnix int64
	UserID       int64
	ID           string
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.AmountCents,
		arg.Description,
		arg.Category,
		arg.OccurredAt,
		arg.OccurredUnix,
		arg.UserID,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `
DELETE FROM transactions WHERE user_id = ? AND id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, userID int64, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, userID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createAccount = `
INSERT INTO accounts (id, user_id, name, balance_cents, account_type)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateAccount(ctx context.Context, arg Account) error {
	_, err := q.db.ExecContext(ctx, createAccount,
		arg.ID,
		arg.UserID,
		arg.Name,
		arg.BalanceCents,
		arg.AccountType,
	)
	return err
}

const listAccounts = `
SELECT id, user_id, name, balance_cents, account_type FROM accounts WHERE user_id = ? ORDER BY rowid
`

func (q *Queries) ListAccounts(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.BalanceCents, &i.AccountType); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBudget = `
INSERT INTO budgets (user_id, category, amount_cents)
VALUES (?, ?, ?)
RETURNING id, user_id, category, amount_cents
`

type CreateBudgetParams struct {
	UserID      int64
	Category    string
	AmountCents int64
}

func (q *Queries) CreateBudget(ctx context.Context, arg CreateBudgetParams) (Budget, error) {
	row := q.db.QueryRowContext(ctx, createBudget, arg.UserID, arg.Category, arg.AmountCents)
	var i Budget
	err := row.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents)
	return i, err
}

const listBudgets = `
SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? ORDER BY id
`

func (q *Queries) ListBudgets(ctx context.Context, userID int64) ([]Budget, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Budget
	for rows.Next() {
		var i Budget
		if err := rows.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBillReminder = `
INSERT INTO bill_reminders (user_id, description, amount_cents, due_date, due_unix)
VALUES (?, ?, ?, ?, ?)
RETURNING id, user_id, description, amount_cents, due_date, due_unix
`

type CreateBillReminderParams struct {
	UserID      int64
	Description string
	AmountCents int64
	DueDate     string
	DueUnix     int64
}

func (q *Queries) CreateBillReminder(ctx context.Context, arg CreateBillReminderParams) (BillReminder, error) {
	row := q.db.QueryRowContext(ctx, createBillReminder,
		arg.UserID,
		arg.Description,
		arg.AmountCents,
		arg.DueDate,
		arg.DueUnix,
	)
	var i BillReminder
	err := row.Scan(&i.ID, &i.UserID, &i.Description, &i.AmountCents, &i.DueDate, &i.DueUnix)
	return i, err
}

const listBillReminders = `
SELECT id, user_id, description, amount_cents, due_date, due_unix
FROM bill_reminders WHERE user_id = ? ORDER BY due_unix, id
`

func (q *Queries) ListBillReminders(ctx context.Context, userID int64) ([]BillReminder, error) {
	rows, err := q.db.QueryContext(ctx, listBillReminders, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BillReminder
	for rows.Next() {
		var i BillReminder
		if err := rows.Scan(&i.ID, &i.UserID, &i.Description, &i.AmountCents, &i.DueDate, &i.DueUnix); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
