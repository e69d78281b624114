package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"fincoach/internal/alerts"
	"fincoach/internal/amqp"
	"fincoach/internal/cli"
	"fincoach/internal/log"
	"fincoach/internal/sheets"
	gsheet "fincoach/internal/sheets/google"
	"fincoach/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := log.Setup(log.ComponentWorker, cfg.LogLevel)
	logger.Info("Starting fincoach-worker")

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPAlertsQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	var exporter sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleReportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Report export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleReportSheetName)
	} else {
		logger.Info("Report export disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	alertWorker := worker.NewAlertWorker(repo, amqpClient, exporter, alerts.Thresholds{
		LowBalance: cfg.LowBalanceThreshold,
		Factor:     cfg.UnusualActivityFactor,
	})
	reminders := worker.NewReminderWorker(repo, amqpClient, cfg.ReminderWindow)

	scheduler := cron.New()
	if _, err := reminders.Schedule(ctx, scheduler, cfg.ReminderSchedule); err != nil {
		logger.Error("Invalid reminder schedule", "error", err, "schedule", cfg.ReminderSchedule)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue)
		err := amqpClient.ConsumeTransactionEvents(gctx, alertWorker.HandleTransactionEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		scheduler.Start()
		logger.Info("Reminder sweep scheduled", "schedule", cfg.ReminderSchedule, "window", cfg.ReminderWindow)
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})
	g.Go(func() error {
		logger.Info("Serving worker metrics", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
