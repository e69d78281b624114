// Package memory keeps exported reports in process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fincoach/internal/core"
	ports "fincoach/internal/sheets"
)

// Writer records every report it is given.
type Writer struct {
	mu      sync.Mutex
	reports []core.FinancialReport
}

var _ ports.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteReport(_ context.Context, report core.FinancialReport) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, report)
	return fmt.Sprintf("mem:%d", len(w.reports)), nil
}

// Reports returns a copy of the written reports in order.
func (w *Writer) Reports() []core.FinancialReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.FinancialReport(nil), w.reports...)
}
