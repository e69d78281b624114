// Package sheets defines the report export port and its adapters.
package sheets

import (
	"context"

	"fincoach/internal/core"
)

// ReportWriter exports a financial report to an external sink.
type ReportWriter interface {
	// WriteReport stores the report and returns a reference to where it landed.
	WriteReport(ctx context.Context, report core.FinancialReport) (ref string, err error)
}
