package storage

import "database/sql"

type User struct {
	ID          int64
	Username    string
	CreditScore sql.NullInt64
	CreatedAt   string
}

type Transaction struct {
	ID           string
	UserID       int64
	AmountCents  int64
	Description  string
	Category     string
	OccurredAt   string
	OccurredUnix int64
	CreatedAt    string
}

type Account struct {
	ID           string
	UserID       int64
	Name         string
	BalanceCents int64
	AccountType  string
}

type Budget struct {
	ID          int64
	UserID      int64
	Category    string
	AmountCents int64
}

type BillReminder struct {
	ID          int64
	UserID      int64
	Description string
	AmountCents int64
	DueDate     string
	DueUnix     int64
}
