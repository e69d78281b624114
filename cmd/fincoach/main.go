package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fincoach/internal/amqp"
	"fincoach/internal/cache"
	"fincoach/internal/cli"
	apphttp "fincoach/internal/http"
	"fincoach/internal/log"
	"fincoach/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := log.Setup(log.ComponentApp, cfg.LogLevel)

	ctx, stop := cli.SignalContext()
	defer stop()

	repo, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	reports := cache.NewLRUCache[services.ReportResult]("reports", cfg.ReportCacheSize, cfg.ReportCacheTTL)
	caches := cache.NewManager()
	caches.Register(reports)
	caches.StartCleanup(cfg.ReportCacheTTL)
	defer caches.Stop()

	opts := []services.Option{services.WithReportCache(reports)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPAlertsQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP, transaction events disabled", "error", err)
		} else {
			opts = append(opts, services.WithPublisher(client))
			logger.Info("Transaction events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP_URL not set, transaction events disabled")
	}

	svc := services.NewFinanceService(repo, opts...)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close service", "error", err)
		}
	}()

	srv := apphttp.NewServer(apphttp.Config{
		Addr:            ":" + cfg.Port,
		APIToken:        cfg.APIToken,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		ReminderWindow:  cfg.ReminderWindow,
	}, svc)

	if cfg.APIToken == "" {
		logger.Warn("API_TOKEN not set, API is unauthenticated")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fincoach server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
