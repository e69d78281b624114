package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"fincoach/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_Users(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.ID == 0 || u.Username != "alice" || u.CreditScore != nil {
		t.Fatalf("CreateUser() = %+v", u)
	}

	if _, err := repo.CreateUser(ctx, "alice", nil); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrConflict", err)
	}

	if err := repo.UpdateCreditScore(ctx, u.ID, 720); err != nil {
		t.Fatalf("UpdateCreditScore() error = %v", err)
	}
	got, err := repo.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.CreditScore == nil || *got.CreditScore != 720 {
		t.Errorf("CreditScore = %v, want 720", got.CreditScore)
	}

	if _, err := repo.GetUser(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser(999) error = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateCreditScore(ctx, 999, 700); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateCreditScore(999) error = %v, want ErrNotFound", err)
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != u.ID {
		t.Errorf("ListUserIDs() = %v, want [%d]", ids, u.ID)
	}
}

func TestSQLiteRepository_Transactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "bob", nil)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	rome := time.FixedZone("CET", 3600)
	txs := []core.Transaction{
		{ID: "t1", Amount: 3000, Description: "salary", Category: "Income", Date: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)},
		{ID: "t2", Amount: -45.25, Description: "groceries", Category: "Food", Date: time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "t3", Amount: -1200, Description: "rent", Category: "Housing", Date: time.Date(2024, 2, 1, 0, 30, 0, 0, rome)},
	}
	for _, tx := range txs {
		if _, err := repo.CreateTransaction(ctx, u.ID, tx); err != nil {
			t.Fatalf("CreateTransaction(%s) error = %v", tx.ID, err)
		}
	}

	got, err := repo.GetTransaction(ctx, u.ID, "t3")
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Amount != -1200 || !got.Date.Equal(txs[2].Date) {
		t.Errorf("GetTransaction() = %+v", got)
	}
	if _, offset := got.Date.Zone(); offset != 3600 {
		t.Errorf("stored offset = %d, want 3600", offset)
	}

	t.Run("newest first", func(t *testing.T) {
		list, err := repo.ListTransactions(ctx, u.ID, core.TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(list) != 3 || list[0].ID != "t3" || list[2].ID != "t1" {
			t.Errorf("ListTransactions() order = %v", ids(list))
		}
	})

	t.Run("filters", func(t *testing.T) {
		maxAmount := 0.0
		list, err := repo.ListTransactions(ctx, u.ID, core.TransactionFilter{
			From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			MaxAmount: &maxAmount,
		})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != "t2" {
			t.Errorf("filtered = %v, want [t2]", ids(list))
		}
	})

	t.Run("paging", func(t *testing.T) {
		list, err := repo.ListTransactions(ctx, u.ID, core.TransactionFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != "t2" {
			t.Errorf("page = %v, want [t2]", ids(list))
		}
	})

	updated := txs[1]
	updated.Amount = -50
	updated.Category = "Groceries"
	if err := repo.UpdateTransaction(ctx, u.ID, updated); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if err := repo.UpdateTransaction(ctx, u.ID+1, updated); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTransaction(other user) error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, u.ID, "t1"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if err := repo.DeleteTransaction(ctx, u.ID, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteTransaction() error = %v, want ErrNotFound", err)
	}

	snap, err := repo.Snapshot(ctx, u.ID)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if want := strconv.FormatInt(u.ID, 10); snap.UserID != want {
		t.Errorf("Snapshot UserID = %q, want %q", snap.UserID, want)
	}
	if len(snap.Transactions) != 2 || snap.Transactions[0].ID != "t2" || snap.Transactions[0].Category != "Groceries" {
		t.Errorf("Snapshot transactions = %+v", snap.Transactions)
	}
}

func TestSQLiteRepository_AccountsBudgetsReminders(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "carol", nil)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.CreateAccount(ctx, u.ID, core.Account{ID: "a1", Name: "Checking", Balance: 1500.5, Type: "checking"}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	for _, b := range []core.Budget{{Category: "Food", Amount: 300}, {Category: "Food", Amount: 50}} {
		if _, err := repo.CreateBudget(ctx, u.ID, b); err != nil {
			t.Fatalf("CreateBudget() error = %v", err)
		}
	}
	due := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rem, err := repo.CreateBillReminder(ctx, core.BillReminder{UserID: u.ID, Description: "Electric", Amount: 80, DueDate: due})
	if err != nil {
		t.Fatalf("CreateBillReminder() error = %v", err)
	}
	if rem.ID == 0 || !rem.DueDate.Equal(due) {
		t.Errorf("CreateBillReminder() = %+v", rem)
	}

	budgets, err := repo.ListBudgets(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if len(budgets) != 2 || budgets[0].Amount != 300 || budgets[1].Amount != 50 {
		t.Errorf("ListBudgets() = %+v, want both Food budgets in insert order", budgets)
	}

	reminders, err := repo.ListBillReminders(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBillReminders() error = %v", err)
	}
	if len(reminders) != 1 || reminders[0].Description != "Electric" {
		t.Errorf("ListBillReminders() = %+v", reminders)
	}

	snap, err := repo.Snapshot(ctx, u.ID)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Accounts) != 1 || snap.Accounts[0].Balance != 1500.5 {
		t.Errorf("Snapshot accounts = %+v", snap.Accounts)
	}
	if snap.CreditScore != nil {
		t.Errorf("Snapshot credit score = %v, want nil", *snap.CreditScore)
	}

	if _, err := repo.Snapshot(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Snapshot(999) error = %v, want ErrNotFound", err)
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}
