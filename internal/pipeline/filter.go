package pipeline

import (
	"strings"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// Predicate decides whether a single row belongs to the filtered view.
type Predicate func(domain.Row) bool

// BuildPredicates turns the active criteria into one predicate each, bound to
// the table's column layout. Absent criteria produce no predicate, so the
// empty criteria set selects every row. Criteria that reference a column the
// table does not have degrade to the neutral (include-all) behavior.
func BuildPredicates(t *domain.Table, c domain.Criteria) []Predicate {
	var preds []Predicate

	if !c.Customers.IsAll() {
		if idx, ok := t.ColumnIndex(domain.ColCustomer); ok {
			sel := c.Customers
			preds = append(preds, func(r domain.Row) bool {
				return sel.Matches(domain.NormalizeBlank(cellAt(r, idx).String()))
			})
		}
	}

	if !c.Items.IsAll() {
		if itemCol, ok := t.ItemColumn(); ok {
			idx, _ := t.ColumnIndex(itemCol)
			sel := c.Items
			preds = append(preds, func(r domain.Row) bool {
				return sel.Matches(domain.NormalizeBlank(cellAt(r, idx).String()))
			})
		}
	}

	if c.Status != "" && c.Status != domain.StatusAll {
		if idx, ok := t.ColumnIndex(domain.ColStatus); ok {
			want := c.Status
			preds = append(preds, func(r domain.Row) bool {
				return domain.NormalizeBlank(cellAt(r, idx).String()) == want
			})
		}
	}

	if c.MaxDays != nil {
		if idx, ok := t.ColumnIndex(domain.ColDaysUntilOut); ok {
			limit := *c.MaxDays
			preds = append(preds, func(r domain.Row) bool {
				v, hasValue := cellAt(r, idx).Float()
				// missing values always pass the ceiling
				return !hasValue || v <= limit
			})
		}
	}

	if c.DueFrom != nil || c.DueTo != nil {
		if idx, ok := t.ColumnIndex(domain.ColLastDue); ok {
			from, to := c.DueFrom, c.DueTo
			preds = append(preds, func(r domain.Row) bool {
				d, hasValue := cellAt(r, idx).Time()
				if !hasValue {
					return true
				}
				if from != nil && d.Before(*from) {
					return false
				}
				if to != nil && d.After(*to) {
					return false
				}
				return true
			})
		}
	}

	if query := strings.ToLower(strings.TrimSpace(c.Search)); query != "" {
		preds = append(preds, func(r domain.Row) bool {
			for _, cell := range r {
				if strings.Contains(strings.ToLower(cell.String()), query) {
					return true
				}
			}
			return false
		})
	}

	return preds
}

// Apply folds the predicates with AND and returns the matching subsequence as
// a derived view. The input table is never mutated; the view shares its
// column set and row values.
func Apply(t *domain.Table, preds []Predicate) *domain.Table {
	out := &domain.Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if matchesAll(row, preds) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Filter is the one-shot form of BuildPredicates + Apply.
func Filter(t *domain.Table, c domain.Criteria) *domain.Table {
	return Apply(t, BuildPredicates(t, c))
}

func matchesAll(row domain.Row, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(row) {
			return false
		}
	}
	return true
}

func cellAt(r domain.Row, idx int) domain.Cell {
	if idx >= len(r) {
		return domain.Cell{}
	}
	return r[idx]
}
