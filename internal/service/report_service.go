package service

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
	"github.com/Githubtestacc12/reorder-dashboard/internal/export"
	"github.com/Githubtestacc12/reorder-dashboard/internal/pipeline"
)

// ReportService owns the working report table. The table holds raw loaded
// data only; every view recomputes derive -> filter -> aggregate from
// scratch, so replacing the table never leaks filters or derived columns
// across reports.
type ReportService struct {
	mu         sync.RWMutex
	table      *domain.Table
	bufferDays int
	now        func() time.Time
}

func NewReportService(table *domain.Table, bufferDays int) *ReportService {
	return &ReportService{
		table:      table,
		bufferDays: bufferDays,
		now:        time.Now,
	}
}

// Raw returns the current working table as loaded, without the derived date
// column.
func (s *ReportService) Raw() *domain.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Replace swaps in a freshly uploaded table. The new table inherits nothing
// from the previous one.
func (s *ReportService) Replace(table *domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// filtered runs the derive and filter stages for one interaction.
func (s *ReportService) filtered(c domain.Criteria) *domain.Table {
	raw := s.Raw()
	derived := pipeline.WithSuggestedDates(raw, s.bufferDays, s.now())
	return pipeline.Filter(derived, c)
}

// View returns the filtered rows in display order together with the KPI
// summary.
func (s *ReportService) View(c domain.Criteria) *domain.ReportView {
	filtered := s.filtered(c)
	cols := export.DisplayColumns(filtered)

	rows := make([][]string, 0, filtered.Len())
	for _, row := range filtered.Rows {
		rendered := make([]string, len(cols))
		for i, col := range cols {
			rendered[i] = filtered.Cell(row, col).String()
		}
		rows = append(rows, rendered)
	}

	return &domain.ReportView{
		Columns: cols,
		Rows:    rows,
		Summary: pipeline.Summarize(filtered),
	}
}

// Summary returns only the KPI scalars for the filtered view.
func (s *ReportService) Summary(c domain.Criteria) domain.Summary {
	return pipeline.Summarize(s.filtered(c))
}

// Charts returns the chart datasets for the filtered view. All datasets are
// empty when no rows match.
func (s *ReportService) Charts(c domain.Criteria) domain.ReportCharts {
	return pipeline.Charts(s.filtered(c))
}

// ExportCSV renders the filtered view as CSV, in display column order.
func (s *ReportService) ExportCSV(c domain.Criteria) ([]byte, error) {
	return export.WriteCSV(s.filtered(c))
}

// Facets reports the observed filter domains of the working table. The item
// list is narrowed to rows matching the customer selection, mirroring the
// dependent item picker.
func (s *ReportService) Facets(customers domain.Selection) *domain.Facets {
	raw := s.Raw()
	facets := &domain.Facets{
		Statuses: []string{domain.StatusAll, domain.StatusReorderSoon, domain.StatusOK},
	}

	if idx, ok := raw.ColumnIndex(domain.ColCustomer); ok {
		facets.Customers = distinctLabels(raw, idx, domain.SelectAll(), -1)
	}

	if itemCol, ok := raw.ItemColumn(); ok {
		itemIdx, _ := raw.ColumnIndex(itemCol)
		custIdx, hasCust := raw.ColumnIndex(domain.ColCustomer)
		if !hasCust {
			custIdx = -1
		}
		facets.Items = distinctLabels(raw, itemIdx, customers, custIdx)
	}

	if idx, ok := raw.ColumnIndex(domain.ColDaysUntilOut); ok {
		maxDays := 0.0
		for _, row := range raw.Rows {
			if v, ok := row[idx].Float(); ok && v > maxDays {
				maxDays = v
			}
		}
		facets.MaxDays = int(maxDays)
	}

	if idx, ok := raw.ColumnIndex(domain.ColLastDue); ok {
		var min, max time.Time
		for _, row := range raw.Rows {
			d, ok := row[idx].Time()
			if !ok {
				continue
			}
			if min.IsZero() || d.Before(min) {
				min = d
			}
			if max.IsZero() || d.After(max) {
				max = d
			}
		}
		if !min.IsZero() {
			facets.DueFrom = min.Format(domain.DateLayout)
			facets.DueTo = max.Format(domain.DateLayout)
		}
	}

	return facets
}

// distinctLabels collects the sorted unique blank-normalized labels of one
// column, restricted to rows whose customer matches the given selection when
// custIdx is valid.
func distinctLabels(t *domain.Table, idx int, customers domain.Selection, custIdx int) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, row := range t.Rows {
		if custIdx >= 0 && !customers.Matches(domain.NormalizeBlank(row[custIdx].String())) {
			continue
		}
		label := domain.NormalizeBlank(row[idx].String())
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	slices.SortFunc(labels, strings.Compare)
	return labels
}
