package pipeline

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// Summarize computes the KPI scalars over a filtered view. Missing values are
// skipped; the average and the sum are rounded to the nearest integer. An
// empty view yields all zeros.
func Summarize(t *domain.Table) domain.Summary {
	s := domain.Summary{TotalItems: t.Len()}
	if t.Len() == 0 {
		return s
	}

	statusIdx, hasStatus := t.ColumnIndex(domain.ColStatus)
	daysIdx, hasDays := t.ColumnIndex(domain.ColDaysUntilOut)
	qtyIdx, hasQty := t.ColumnIndex(domain.ColSuggestedQty)

	var daysSum, qtySum float64
	var daysCount int
	for _, row := range t.Rows {
		if hasStatus && cellAt(row, statusIdx).String() == domain.StatusReorderSoon {
			s.NeedReorder++
		}
		if hasDays {
			if v, ok := cellAt(row, daysIdx).Float(); ok {
				daysSum += v
				daysCount++
			}
		}
		if hasQty {
			if v, ok := cellAt(row, qtyIdx).Float(); ok {
				qtySum += v
			}
		}
	}

	if daysCount > 0 {
		s.AvgDaysUntilOut = int(math.Round(daysSum / float64(daysCount)))
	}
	s.TotalSuggestedQty = int(math.Round(qtySum))

	return s
}

// Charts builds the three chart datasets over a filtered view. All datasets
// are empty when the view is; the trend series is also empty when the table
// has no Last Due column.
func Charts(t *domain.Table) domain.ReportCharts {
	return domain.ReportCharts{
		QtyByCustomer: QtyByCustomerChart(t),
		StatusShare:   StatusShareChart(t),
		ReorderTrend:  ReorderTrendChart(t),
	}
}

// QtyByCustomerChart sums Suggested Order Qty per (customer, status) pair in
// first-seen order, for the grouped bar chart.
func QtyByCustomerChart(t *domain.Table) []domain.QtyByCustomer {
	custIdx, hasCust := t.ColumnIndex(domain.ColCustomer)
	qtyIdx, hasQty := t.ColumnIndex(domain.ColSuggestedQty)
	if !hasCust || !hasQty || t.Len() == 0 {
		return nil
	}

	statusIdx, hasStatus := t.ColumnIndex(domain.ColStatus)

	type key struct{ customer, status string }
	totals := make(map[key]int)
	var bars []domain.QtyByCustomer

	for _, row := range t.Rows {
		k := key{customer: domain.NormalizeBlank(cellAt(row, custIdx).String())}
		if hasStatus {
			k.status = domain.NormalizeBlank(cellAt(row, statusIdx).String())
		}

		qty, _ := cellAt(row, qtyIdx).Float()
		if pos, seen := totals[k]; seen {
			bars[pos].TotalQty += qty
			continue
		}
		totals[k] = len(bars)
		bars = append(bars, domain.QtyByCustomer{Customer: k.customer, Status: k.status, TotalQty: qty})
	}

	return bars
}

// StatusShareChart counts rows per status for the distribution pie chart.
func StatusShareChart(t *domain.Table) []domain.StatusShare {
	statusIdx, ok := t.ColumnIndex(domain.ColStatus)
	if !ok || t.Len() == 0 {
		return nil
	}

	counts := make(map[string]int)
	var shares []domain.StatusShare
	for _, row := range t.Rows {
		status := domain.NormalizeBlank(cellAt(row, statusIdx).String())
		if pos, seen := counts[status]; seen {
			shares[pos].Count++
			continue
		}
		counts[status] = len(shares)
		shares = append(shares, domain.StatusShare{Status: status, Count: 1})
	}

	return shares
}

// ReorderTrendChart buckets "Reorder Soon" rows by the month of their Last
// Due date. Rows without a Last Due date are skipped; the series is sorted by
// month.
func ReorderTrendChart(t *domain.Table) []domain.TrendPoint {
	dueIdx, hasDue := t.ColumnIndex(domain.ColLastDue)
	statusIdx, hasStatus := t.ColumnIndex(domain.ColStatus)
	if !hasDue || !hasStatus || t.Len() == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		due, ok := cellAt(row, dueIdx).Time()
		if !ok {
			continue
		}
		month := time.Date(due.Year(), due.Month(), 1, 0, 0, 0, 0, due.Location())
		bucket := month.Format(domain.DateLayout)
		if cellAt(row, statusIdx).String() == domain.StatusReorderSoon {
			counts[bucket]++
		} else if _, seen := counts[bucket]; !seen {
			counts[bucket] = 0
		}
	}

	points := make([]domain.TrendPoint, 0, len(counts))
	for month, count := range counts {
		points = append(points, domain.TrendPoint{Month: month, Count: count})
	}
	slices.SortFunc(points, func(a, b domain.TrendPoint) int {
		return strings.Compare(a.Month, b.Month)
	})

	return points
}
