package pipeline

import (
	"math"
	"time"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// DefaultBufferDays is the lead time subtracted from the projected stockout
// date to leave room for reorder processing.
const DefaultBufferDays = 5

// WithSuggestedDates returns a copy of the table with the Suggested Reorder
// Date column filled in: today + (rounded Days Until Out - bufferDays),
// clipped so it is never earlier than today. A missing Days Until Out counts
// as 0. Tables without a Days Until Out column are returned unchanged.
//
// bufferDays is taken as-is; a negative buffer simply pushes dates later.
func WithSuggestedDates(t *domain.Table, bufferDays int, today time.Time) *domain.Table {
	daysIdx, ok := t.ColumnIndex(domain.ColDaysUntilOut)
	if !ok {
		return t
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	out := domain.NewTable(t.Columns)
	dateIdx, exists := out.ColumnIndex(domain.ColSuggestedReorder)
	if !exists {
		out.Columns = append(out.Columns, domain.ColSuggestedReorder)
		dateIdx = len(out.Columns) - 1
	}

	out.Rows = make([]domain.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		days := 0
		if v, hasValue := row[daysIdx].Float(); hasValue {
			days = int(math.Round(v))
		}

		due := today.AddDate(0, 0, days-bufferDays)
		if due.Before(today) {
			due = today
		}

		derived := make(domain.Row, len(out.Columns))
		copy(derived, row)
		derived[dateIdx] = domain.DateCell(due)
		out.Rows = append(out.Rows, derived)
	}

	return out
}
