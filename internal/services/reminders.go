package services

import (
	"fmt"
	"slices"
	"time"

	"fincoach/internal/core"
)

// DefaultReminderWindow is how far ahead bills are reported.
const DefaultReminderWindow = 7 * 24 * time.Hour

// Reminder is a bill that falls due inside the reminder window.
type Reminder struct {
	Bill    core.BillReminder `json:"bill"`
	Message string            `json:"message"`
}

// UpcomingBills returns reminders with now < due <= now+window, soonest first.
func UpcomingBills(now time.Time, reminders []core.BillReminder, window time.Duration) []Reminder {
	if window <= 0 {
		window = DefaultReminderWindow
	}
	limit := now.Add(window)

	due := make([]core.BillReminder, 0, len(reminders))
	for _, r := range reminders {
		if r.DueDate.After(now) && !r.DueDate.After(limit) {
			due = append(due, r)
		}
	}
	slices.SortStableFunc(due, func(a, b core.BillReminder) int {
		return a.DueDate.Compare(b.DueDate)
	})

	out := make([]Reminder, len(due))
	for i, r := range due {
		out[i] = Reminder{
			Bill: r,
			Message: fmt.Sprintf("Reminder: You have a %s payment of $%.2f due on %s.",
				r.Description, r.Amount, r.DueDate.Format("2006-01-02")),
		}
	}
	return out
}
