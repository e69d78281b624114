package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fincoach/internal/core"
	"fincoach/internal/storage"
)

func TestStore_UserLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", nil); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate username error = %v, want ErrConflict", err)
	}
	if err := s.UpdateCreditScore(ctx, u.ID, 640); err != nil {
		t.Fatalf("UpdateCreditScore() error = %v", err)
	}
	if err := s.UpdateCreditScore(ctx, 42, 640); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateCreditScore(unknown) error = %v, want ErrNotFound", err)
	}

	snap, err := s.Snapshot(ctx, u.ID)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.CreditScore == nil || *snap.CreditScore != 640 {
		t.Errorf("Snapshot credit score = %v, want 640", snap.CreditScore)
	}
	*snap.CreditScore = 300
	again, _ := s.GetUser(ctx, u.ID)
	if *again.CreditScore != 640 {
		t.Error("snapshot aliases stored credit score")
	}
}

func TestStore_Transactions(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "bob", nil)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, amt := range []float64{100, -20, -30, -40} {
		tx := core.Transaction{
			ID:          string(rune('a' + i)),
			Amount:      amt,
			Description: "tx",
			Category:    "General",
			Date:        base.AddDate(0, 0, i),
		}
		if _, err := s.CreateTransaction(ctx, u.ID, tx); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter core.TransactionFilter
		want   []string
	}{
		{"all newest first", core.TransactionFilter{}, []string{"d", "c", "b", "a"}},
		{"page", core.TransactionFilter{Limit: 2, Offset: 1}, []string{"c", "b"}},
		{"past end", core.TransactionFilter{Offset: 10}, []string{}},
		{"from", core.TransactionFilter{From: base.AddDate(0, 0, 2)}, []string{"d", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, u.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}

	if err := s.DeleteTransaction(ctx, u.ID, "b"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := s.GetTransaction(ctx, u.ID, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTransaction(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateTransaction(ctx, u.ID, core.Transaction{ID: "zz"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateTransaction(unknown) error = %v, want ErrNotFound", err)
	}

	snap, _ := s.Snapshot(ctx, u.ID)
	if len(snap.Transactions) != 3 || snap.Transactions[0].ID != "a" {
		t.Errorf("Snapshot should be chronological, got %+v", snap.Transactions)
	}
}

func TestStore_BillRemindersSorted(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "carol", nil)
	late := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	early := late.AddDate(0, 0, -10)

	for _, due := range []time.Time{late, early} {
		if _, err := s.CreateBillReminder(ctx, core.BillReminder{UserID: u.ID, Description: "bill", Amount: 10, DueDate: due}); err != nil {
			t.Fatalf("CreateBillReminder() error = %v", err)
		}
	}
	if _, err := s.CreateBillReminder(ctx, core.BillReminder{UserID: 99, Description: "x", Amount: 1, DueDate: late}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("reminder for unknown user error = %v, want ErrNotFound", err)
	}

	got, err := s.ListBillReminders(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBillReminders() error = %v", err)
	}
	if len(got) != 2 || !got[0].DueDate.Equal(early) {
		t.Errorf("ListBillReminders() = %+v, want earliest first", got)
	}
}
