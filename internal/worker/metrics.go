package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fincoach_worker_events_total",
		Help: "Transaction events handled by the worker, by result.",
	}, []string{"result"})

	alertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fincoach_alerts_total",
		Help: "Alerts raised, by alert type.",
	}, []string{"type"})

	reportsExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fincoach_reports_exported_total",
		Help: "Report exports, by result.",
	}, []string{"result"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fincoach_reminder_sweep_seconds",
		Help:    "Duration of bill reminder sweeps.",
		Buckets: prometheus.DefBuckets,
	})
)
