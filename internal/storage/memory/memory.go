// Package memory is an in-process store used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"fincoach/internal/core"
	"fincoach/internal/storage"
)

type userRecord struct {
	user      core.User
	txs       []core.Transaction
	accounts  []core.Account
	budgets   []core.Budget
	reminders []core.BillReminder
}

type Store struct {
	mu         sync.Mutex
	users      map[int64]*userRecord
	nextUserID int64
	nextBillID int64
	now        func() time.Time
}

func New() *Store {
	return &Store{users: make(map[int64]*userRecord), now: time.Now}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// user must be called with s.mu held.
func (s *Store) user(id int64) (*userRecord, error) {
	rec, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return rec, nil
}

func (s *Store) CreateUser(_ context.Context, username string, creditScore *int) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Username == username {
			return core.User{}, fmt.Errorf("create user %q: %w", username, storage.ErrConflict)
		}
	}
	s.nextUserID++
	u := core.User{ID: s.nextUserID, Username: username, CreditScore: copyScore(creditScore), CreatedAt: s.now().UTC()}
	s.users[u.ID] = &userRecord{user: u}
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(id)
	if err != nil {
		return core.User{}, err
	}
	u := rec.user
	u.CreditScore = copyScore(u.CreditScore)
	return u, nil
}

func (s *Store) UpdateCreditScore(_ context.Context, id int64, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(id)
	if err != nil {
		return err
	}
	rec.user.CreditScore = &score
	return nil
}

func (s *Store) ListUserIDs(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) CreateTransaction(_ context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return core.Transaction{}, err
	}
	rec.txs = append(rec.txs, t)
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, userID int64, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range rec.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
}

// ListTransactions returns matches newest first, ties broken by id.
func (s *Store) ListTransactions(_ context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	f = f.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, t := range rec.txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	if f.Offset >= len(out) {
		return []core.Transaction{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID int64, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return err
	}
	for i := range rec.txs {
		if rec.txs[i].ID == t.ID {
			rec.txs[i] = t
			return nil
		}
	}
	return fmt.Errorf("update transaction %s: %w", t.ID, storage.ErrNotFound)
}

func (s *Store) DeleteTransaction(_ context.Context, userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return err
	}
	for i := range rec.txs {
		if rec.txs[i].ID == id {
			rec.txs = slices.Delete(rec.txs, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("delete transaction %s: %w", id, storage.ErrNotFound)
}

func (s *Store) CreateAccount(_ context.Context, userID int64, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return core.Account{}, err
	}
	rec.accounts = append(rec.accounts, a)
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context, userID int64) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]core.Account{}, rec.accounts...), nil
}

func (s *Store) CreateBudget(_ context.Context, userID int64, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return core.Budget{}, err
	}
	rec.budgets = append(rec.budgets, b)
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]core.Budget{}, rec.budgets...), nil
}

func (s *Store) CreateBillReminder(_ context.Context, b core.BillReminder) (core.BillReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(b.UserID)
	if err != nil {
		return core.BillReminder{}, err
	}
	s.nextBillID++
	b.ID = s.nextBillID
	rec.reminders = append(rec.reminders, b)
	return b, nil
}

// ListBillReminders returns reminders ordered by due date.
func (s *Store) ListBillReminders(_ context.Context, userID int64) ([]core.BillReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	out := append([]core.BillReminder{}, rec.reminders...)
	slices.SortStableFunc(out, func(a, b core.BillReminder) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return out, nil
}

// Snapshot copies the user's records, transactions in chronological order.
func (s *Store) Snapshot(_ context.Context, userID int64) (core.FinancialData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.user(userID)
	if err != nil {
		return core.FinancialData{}, err
	}
	txs := append([]core.Transaction{}, rec.txs...)
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return core.FinancialData{
		UserID:       strconv.FormatInt(userID, 10),
		Transactions: txs,
		Accounts:     append([]core.Account{}, rec.accounts...),
		Budgets:      append([]core.Budget{}, rec.budgets...),
		CreditScore:  copyScore(rec.user.CreditScore),
		LastUpdated:  s.now(),
	}, nil
}

func copyScore(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	return &v
}
