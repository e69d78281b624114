// Package worker reacts to transaction events and runs scheduled reminder sweeps.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fincoach/internal/alerts"
	"fincoach/internal/amqp"
	"fincoach/internal/analysis"
	"fincoach/internal/core"
	"fincoach/internal/log"
	"fincoach/internal/sheets"
	"fincoach/internal/storage"
)

type SnapshotSource interface {
	Snapshot(ctx context.Context, userID int64) (core.FinancialData, error)
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert core.Alert) error
}

// AlertWorker re-analyzes a user after each transaction change and raises alerts.
type AlertWorker struct {
	source     SnapshotSource
	publisher  AlertPublisher
	exporter   sheets.ReportWriter
	analyzer   analysis.Analyzer
	thresholds alerts.Thresholds
	events     *log.StructuredLogger
}

// NewAlertWorker builds a worker. publisher and exporter may be nil.
func NewAlertWorker(source SnapshotSource, publisher AlertPublisher, exporter sheets.ReportWriter, thresholds alerts.Thresholds) *AlertWorker {
	return &AlertWorker{
		source:     source,
		publisher:  publisher,
		exporter:   exporter,
		thresholds: thresholds,
		events:     log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentWorker, Handler: slog.Default().Handler()})),
	}
}

// HandleTransactionEvent only fails when the snapshot cannot be loaded, so the
// delivery is requeued; alert and export failures are logged.
func (w *AlertWorker) HandleTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	data, err := w.source.Snapshot(ctx, ev.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Event for unknown user, dropping", "user_id", ev.UserID, "kind", ev.Kind)
		eventsProcessed.WithLabelValues("dropped").Inc()
		return nil
	}
	if err != nil {
		eventsProcessed.WithLabelValues("error").Inc()
		return fmt.Errorf("load snapshot for user %d: %w", ev.UserID, err)
	}

	report := w.analyzer.Analyze(data)
	raised := alerts.Evaluate(report, data, w.thresholds)
	for _, a := range raised {
		w.raise(ctx, a)
	}

	if w.exporter != nil {
		w.export(ctx, report)
	}

	eventsProcessed.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Transaction event processed",
		"user_id", ev.UserID,
		"transaction_id", ev.TransactionID,
		"kind", ev.Kind,
		"alerts", len(raised))
	return nil
}

func (w *AlertWorker) raise(ctx context.Context, a core.Alert) {
	alertsRaised.WithLabelValues(string(a.Type)).Inc()
	w.events.LogAlert(ctx, a)
	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishAlert(ctx, a); err != nil {
		slog.ErrorContext(ctx, "Failed to publish alert",
			"user_id", a.UserID,
			"alert_type", a.Type,
			"error", err)
	}
}

func (w *AlertWorker) export(ctx context.Context, report core.FinancialReport) {
	ref, err := w.exporter.WriteReport(ctx, report)
	if err != nil {
		reportsExported.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "Failed to export report", "user_id", report.UserID, "error", err)
		return
	}
	reportsExported.WithLabelValues("ok").Inc()
	slog.DebugContext(ctx, "Report exported", "user_id", report.UserID, "ref", ref)
}
