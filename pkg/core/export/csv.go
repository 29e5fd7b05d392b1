// Package export renders computed schedules and logs into downloadable
// formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"deal_evaluation/pkg/core/deal"
	"deal_evaluation/pkg/core/finance"
)

// ScheduleWriter is the interface any schedule export backend must satisfy.
type ScheduleWriter interface {
	WriteSchedule(rows []finance.AmortizationRow) error
}

// CSVExporter streams CSV to an io.Writer, which lets handlers write
// straight into the HTTP response.
type CSVExporter struct {
	w *csv.Writer
}

// NewCSVExporter wraps the destination writer.
func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{w: csv.NewWriter(w)}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteSchedule writes the amortization schedule with a header row.
func (e *CSVExporter) WriteSchedule(rows []finance.AmortizationRow) error {
	if err := e.w.Write([]string{"period", "payment", "principal", "interest", "balance"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Period),
			money(row.Payment),
			money(row.Principal),
			money(row.Interest),
			money(row.Balance),
		}
		if err := e.w.Write(record); err != nil {
			return fmt.Errorf("csv: write row %d: %w", row.Period, err)
		}
	}

	e.w.Flush()
	return e.w.Error()
}

// WriteExpenses writes an expense log with a header row.
func (e *CSVExporter) WriteExpenses(entries []deal.ExpenseEntry) error {
	if err := e.w.Write([]string{"date", "category", "amount", "description", "vendor"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Date.Format("2006-01-02"),
			string(entry.Category),
			money(entry.Amount),
			entry.Description,
			entry.Vendor,
		}
		if err := e.w.Write(record); err != nil {
			return fmt.Errorf("csv: write expense row: %w", err)
		}
	}

	e.w.Flush()
	return e.w.Error()
}
