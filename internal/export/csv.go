// Package export renders a filtered report view as a downloadable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// DefaultFilename is the suggested name for the downloaded export.
const DefaultFilename = "filtered_reorder_report.csv"

// DisplayColumns returns the table's columns in display order: the derived
// Suggested Reorder Date is repositioned immediately after Days Until Out
// when both are present.
func DisplayColumns(t *domain.Table) []string {
	cols := slices.Clone(t.Columns)

	dateIdx := slices.Index(cols, domain.ColSuggestedReorder)
	daysIdx := slices.Index(cols, domain.ColDaysUntilOut)
	if dateIdx < 0 || daysIdx < 0 {
		return cols
	}

	cols = slices.Delete(cols, dateIdx, dateIdx+1)
	daysIdx = slices.Index(cols, domain.ColDaysUntilOut)
	cols = slices.Insert(cols, daysIdx+1, domain.ColSuggestedReorder)

	return cols
}

// WriteCSV renders exactly the given view, in display column order, as CSV
// bytes. The header row is always present, even for an empty view.
func WriteCSV(t *domain.Table) ([]byte, error) {
	cols := DisplayColumns(t)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(cols))
	for i, row := range t.Rows {
		for j, col := range cols {
			record[j] = t.Cell(row, col).String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv output: %w", err)
	}

	return buf.Bytes(), nil
}
