package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port            string
	APIToken        string
	AllowedOrigins  []string
	RateLimitPerMin int
	ReportCacheTTL  time.Duration
	ReportCacheSize int
	MetricsPort     string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL         string
	AMQPExchange    string
	AMQPQueue       string
	AMQPAlertsQueue string

	// Google Sheets report export
	GoogleSpreadsheetID   string
	GoogleReportSheetName string

	// Worker
	ReminderSchedule      string
	ReminderWindow        time.Duration
	LowBalanceThreshold   float64
	UnusualActivityFactor float64

	// Backend selection
	DataBackend string

	LogLevel slog.Level
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8081"),
		APIToken:        getEnv("API_TOKEN", ""),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
		ReportCacheSize: getEnvInt("REPORT_CACHE_SIZE", 500),
		MetricsPort:     getEnv("METRICS_PORT", "9091"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fincoach.db"),

		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPExchange:    getEnv("AMQP_EXCHANGE", "fincoach"),
		AMQPQueue:       getEnv("AMQP_QUEUE", "transaction_events"),
		AMQPAlertsQueue: getEnv("AMQP_ALERTS_QUEUE", "alerts"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleReportSheetName: getEnv("GOOGLE_REPORT_SHEET_NAME", "Reports"),

		ReminderSchedule:      getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		ReminderWindow:        getEnvDuration("REMINDER_WINDOW", 7*24*time.Hour),
		LowBalanceThreshold:   getEnvFloat("LOW_BALANCE_THRESHOLD", 100),
		UnusualActivityFactor: getEnvFloat("UNUSUAL_ACTIVITY_FACTOR", 3),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		LogLevel: getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	for name, value := range map[string]string{"port": c.Port, "metrics port": c.MetricsPort} {
		if port, err := strconv.Atoi(value); err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be a number", name, value))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid %s %d: must be between 1 and 65535", name, port))
		}
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" || c.AMQPAlertsQueue == "" {
			errors = append(errors, "AMQP queue names cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleReportSheetName == "" {
		errors = append(errors, "Google report sheet name is required when GOOGLE_SPREADSHEET_ID is set")
	}

	if c.RateLimitPerMin < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMin))
	}
	if c.ReportCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.ReportCacheSize))
	}
	if c.ReportCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.ReportCacheTTL))
	}

	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reminder schedule '%s': %v", c.ReminderSchedule, err))
	}
	if c.ReminderWindow < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid reminder window %v: must be at least 1 hour", c.ReminderWindow))
	}
	if c.UnusualActivityFactor <= 1 {
		errors = append(errors, fmt.Sprintf("invalid unusual activity factor %v: must be greater than 1", c.UnusualActivityFactor))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings cmd/fincoach-worker needs on top of Validate.
// The worker reads the API's data, so it cannot run on a process-local memory store.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required by the worker")
	}
	if c.DataBackend != "sqlite" {
		errors = append(errors, fmt.Sprintf("worker requires DATA_BACKEND=sqlite shared with the API, got '%s'", c.DataBackend))
	}
	if len(errors) > 0 {
		return fmt.Errorf("worker configuration invalid:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return level
}
