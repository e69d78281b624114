package log

import (
	"context"
	"log/slog"
	"net/http"

	"fincoach/internal/core"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds request ID to logger context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)
			if requestID == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger := FromContext(r.Context()).With(FieldRequestID, requestID)
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger provides domain-level log events with consistent fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogTransactionCreated logs a stored transaction
func (sl *StructuredLogger) LogTransactionCreated(ctx context.Context, userID string, t core.Transaction) {
	fields := NewFields().
		WithUser(userID).
		WithTransaction(t.ID, t.Amount, t.Category).
		WithOperation(OpCreate).
		WithComponent(ComponentFinance)
	sl.logger.Logger.InfoContext(ctx, "Transaction created", fields.ToSlice()...)
}

// LogReportGenerated logs a freshly computed report
func (sl *StructuredLogger) LogReportGenerated(ctx context.Context, report core.FinancialReport, adviceCount int) {
	fields := NewFields().
		WithUser(report.UserID).
		WithOperation(OpAnalyze).
		WithComponent(ComponentAnalysis)
	fields[FieldMonths] = len(report.MonthlyReports)
	fields[FieldAdviceCount] = adviceCount
	sl.logger.Logger.InfoContext(ctx, "Financial report generated", fields.ToSlice()...)
}

// LogAlert logs an alert raised for a user
func (sl *StructuredLogger) LogAlert(ctx context.Context, alert core.Alert) {
	fields := NewFields().
		WithUser(alert.UserID).
		WithComponent(ComponentWorker)
	fields[FieldAlertType] = string(alert.Type)
	sl.logger.Logger.WarnContext(ctx, alert.Message, fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)
	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
