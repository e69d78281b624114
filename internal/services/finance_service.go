// Package services orchestrates storage, analysis, caching and messaging.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"fincoach/internal/advice"
	"fincoach/internal/amqp"
	"fincoach/internal/analysis"
	"fincoach/internal/cache"
	"fincoach/internal/core"
	"fincoach/internal/log"
)

// ReportResult pairs a report with the advice generated from it.
type ReportResult struct {
	Report core.FinancialReport `json:"report"`
	Advice []string             `json:"advice"`
}

// FinanceService owns every write and read the API exposes.
type FinanceService struct {
	repo      Repository
	publisher EventPublisher
	reports   cache.Cache[ReportResult]
	analyzer  analysis.Analyzer
	events    *log.StructuredLogger
	newID     func() string
	now       func() time.Time

	// generations counts invalidations per user so a report computed from a
	// snapshot older than the latest write is never cached.
	genMu       sync.Mutex
	generations map[int64]uint64
}

type Option func(*FinanceService)

// WithPublisher enables transaction events. Without it writes are not announced.
func WithPublisher(p EventPublisher) Option {
	return func(s *FinanceService) { s.publisher = p }
}

// WithReportCache memoizes reports per user until the next write.
func WithReportCache(c cache.Cache[ReportResult]) Option {
	return func(s *FinanceService) { s.reports = c }
}

// WithClock overrides the time source used for reports and reminders.
func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) {
		s.now = now
		s.analyzer = analysis.Analyzer{Now: now}
	}
}

// WithIDGenerator overrides transaction and account id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *FinanceService) { s.newID = gen }
}

func NewFinanceService(repo Repository, opts ...Option) *FinanceService {
	s := &FinanceService{
		repo:        repo,
		generations: make(map[int64]uint64),
		events:      log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentFinance, Handler: slog.Default().Handler()})),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *FinanceService) invalidate(userID int64) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[userID]++
	if s.reports != nil {
		s.reports.Delete(userKey(userID))
	}
}

func (s *FinanceService) generation(userID int64) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[userID]
}

// cacheReport stores result unless the user's data changed after gen was read.
func (s *FinanceService) cacheReport(userID int64, gen uint64, result ReportResult) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[userID] != gen {
		return false
	}
	s.reports.Set(userKey(userID), result)
	return true
}

func (s *FinanceService) publish(ctx context.Context, userID int64, txID, kind string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping event", "kind", kind)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(userID, txID, kind)); err != nil {
		// the write already succeeded; the worker catches up on the next event
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"user_id", userID,
			"transaction_id", txID,
			"kind", kind,
			"error", err)
	}
}

func (s *FinanceService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *FinanceService) CreateUser(ctx context.Context, username string, creditScore *int) (core.User, error) {
	u := core.User{Username: core.Sanitize(username), CreditScore: creditScore}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	created, err := s.repo.CreateUser(ctx, u.Username, u.CreditScore)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *FinanceService) GetUser(ctx context.Context, userID int64) (core.User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *FinanceService) UpdateCreditScore(ctx context.Context, userID int64, score int) error {
	if err := core.ValidateCreditScore(score); err != nil {
		return err
	}
	if err := s.repo.UpdateCreditScore(ctx, userID, score); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// prepareTransaction sanitizes free text and rounds the amount to cents before validation.
func prepareTransaction(t core.Transaction) (core.Transaction, error) {
	t.Description = core.Sanitize(t.Description)
	t.Category = core.Sanitize(t.Category)
	t.Amount = core.FromFloat(t.Amount).Float()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *FinanceService) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	t, err := prepareTransaction(t)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return core.Transaction{}, err
	}

	t.ID = s.newID()
	created, err := s.repo.CreateTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.invalidate(userID)
	s.events.LogTransactionCreated(ctx, userKey(userID), created)
	s.publish(ctx, userID, created.ID, amqp.EventTransactionCreated)
	return created, nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, userID int64, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

// ListTransactions returns a page of the user's transactions, newest first. The
// result is never nil.
func (s *FinanceService) ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	txs, err := s.repo.ListTransactions(ctx, userID, f.Normalize())
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	t, err := prepareTransaction(t)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.repo.UpdateTransaction(ctx, userID, t); err != nil {
		return core.Transaction{}, err
	}
	s.invalidate(userID)
	s.publish(ctx, userID, t.ID, amqp.EventTransactionUpdated)
	return t, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID int64, id string) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	s.publish(ctx, userID, id, amqp.EventTransactionDeleted)
	return nil
}

func (s *FinanceService) CreateAccount(ctx context.Context, userID int64, a core.Account) (core.Account, error) {
	a.Name = core.Sanitize(a.Name)
	a.Type = core.Sanitize(a.Type)
	a.Balance = core.FromFloat(a.Balance).Float()
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return core.Account{}, err
	}
	if a.ID == "" {
		a.ID = s.newID()
	}
	created, err := s.repo.CreateAccount(ctx, userID, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("save account: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *FinanceService) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx, userID)
}

func (s *FinanceService) CreateBudget(ctx context.Context, userID int64, b core.Budget) (core.Budget, error) {
	b.Category = core.Sanitize(b.Category)
	b.Amount = core.FromFloat(b.Amount).Float()
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return core.Budget{}, err
	}
	created, err := s.repo.CreateBudget(ctx, userID, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBudgets(ctx, userID)
}

func (s *FinanceService) CreateBillReminder(ctx context.Context, userID int64, r core.BillReminder) (core.BillReminder, error) {
	r.UserID = userID
	r.Description = core.Sanitize(r.Description)
	r.Amount = core.FromFloat(r.Amount).Float()
	if err := r.Validate(); err != nil {
		return core.BillReminder{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return core.BillReminder{}, err
	}
	created, err := s.repo.CreateBillReminder(ctx, r)
	if err != nil {
		return core.BillReminder{}, fmt.Errorf("save bill reminder: %w", err)
	}
	return created, nil
}

func (s *FinanceService) ListBillReminders(ctx context.Context, userID int64) ([]core.BillReminder, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBillReminders(ctx, userID)
}

// UpcomingBillsFor lists the user's reminders due within window from now.
func (s *FinanceService) UpcomingBillsFor(ctx context.Context, userID int64, window time.Duration) ([]Reminder, error) {
	reminders, err := s.ListBillReminders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return UpcomingBills(s.now(), reminders, window), nil
}

// Summary rolls up the last 30 days of activity for the user.
func (s *FinanceService) Summary(ctx context.Context, userID int64) (core.AccountSummary, error) {
	data, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return core.AccountSummary{}, err
	}
	return AccountSummary(s.now(), data.Transactions, data.Accounts), nil
}

// Report analyzes the user's current snapshot and generates advice. Results are
// served from the cache until the user's data changes.
func (s *FinanceService) Report(ctx context.Context, userID int64) (ReportResult, error) {
	key := userKey(userID)
	if s.reports != nil {
		if cached, ok := s.reports.Get(key); ok {
			return cached, nil
		}
	}

	gen := s.generation(userID)
	data, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return ReportResult{}, err
	}
	report := s.analyzer.Analyze(data)
	result := ReportResult{Report: report, Advice: advice.Advise(report)}
	s.events.LogReportGenerated(ctx, report, len(result.Advice))

	if s.reports != nil && !s.cacheReport(userID, gen, result) {
		slog.DebugContext(ctx, "User data changed during report, not caching", "user_id", userID)
	}
	return result, nil
}

func (s *FinanceService) Snapshot(ctx context.Context, userID int64) (core.FinancialData, error) {
	return s.repo.Snapshot(ctx, userID)
}

func (s *FinanceService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Close releases the repository and publisher.
func (s *FinanceService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
