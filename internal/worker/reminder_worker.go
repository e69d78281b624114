package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"fincoach/internal/core"
	"fincoach/internal/services"
)

type ReminderSource interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
	ListBillReminders(ctx context.Context, userID int64) ([]core.BillReminder, error)
}

// ReminderWorker turns bills due soon into bill_due alerts.
type ReminderWorker struct {
	source    ReminderSource
	publisher AlertPublisher
	window    time.Duration
	now       func() time.Time
}

func NewReminderWorker(source ReminderSource, publisher AlertPublisher, window time.Duration) *ReminderWorker {
	return &ReminderWorker{
		source:    source,
		publisher: publisher,
		window:    window,
		now:       time.Now,
	}
}

// Sweep checks every user's bills and returns how many reminders were issued.
// A failure for one user is logged and does not stop the sweep.
func (w *ReminderWorker) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { sweepDuration.Observe(time.Since(start).Seconds()) }()

	ids, err := w.source.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	now := w.now()
	sent := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		bills, err := w.source.ListBillReminders(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load bill reminders", "user_id", id, "error", err)
			continue
		}
		for _, r := range services.UpcomingBills(now, bills, w.window) {
			w.remind(ctx, id, r)
			sent++
		}
	}

	slog.InfoContext(ctx, "Bill reminder sweep finished", "users", len(ids), "reminders", sent)
	return sent, nil
}

func (w *ReminderWorker) remind(ctx context.Context, userID int64, r services.Reminder) {
	alert := core.Alert{
		Type:    core.AlertBillDue,
		UserID:  strconv.FormatInt(userID, 10),
		Message: r.Message,
		Data: map[string]any{
			"bill_id":  r.Bill.ID,
			"amount":   r.Bill.Amount,
			"due_date": r.Bill.DueDate.Format("2006-01-02"),
		},
	}
	alertsRaised.WithLabelValues(string(alert.Type)).Inc()
	slog.InfoContext(ctx, r.Message, "user_id", userID, "alert_type", alert.Type)

	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishAlert(ctx, alert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill reminder", "user_id", userID, "error", err)
	}
}

// Schedule registers the sweep on c using a standard five-field cron spec.
func (w *ReminderWorker) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if _, err := w.Sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "Bill reminder sweep failed", "error", err)
		}
	})
}
