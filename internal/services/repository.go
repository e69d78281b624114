package services

import (
	"context"

	"fincoach/internal/amqp"
	"fincoach/internal/core"
)

// Repository is the persistence port shared by the SQLite and memory stores.
type Repository interface {
	CreateUser(ctx context.Context, username string, creditScore *int) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
	UpdateCreditScore(ctx context.Context, id int64, score int) error
	ListUserIDs(ctx context.Context) ([]int64, error)

	CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, userID int64, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, userID int64, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID int64, id string) error

	CreateAccount(ctx context.Context, userID int64, a core.Account) (core.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
	CreateBudget(ctx context.Context, userID int64, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	CreateBillReminder(ctx context.Context, b core.BillReminder) (core.BillReminder, error)
	ListBillReminders(ctx context.Context, userID int64) ([]core.BillReminder, error)

	Snapshot(ctx context.Context, userID int64) (core.FinancialData, error)
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces transaction changes to the worker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
	Close() error
}
