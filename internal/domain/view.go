package domain

// Summary holds the four KPI scalars computed over a filtered view. All of
// them are zero when the view is empty.
type Summary struct {
	TotalItems        int `json:"total_items"`
	NeedReorder       int `json:"need_reorder"`
	AvgDaysUntilOut   int `json:"avg_days_until_out"`
	TotalSuggestedQty int `json:"total_suggested_qty"`
}

// QtyByCustomer is one bar of the "Suggested Order Qty by Customer" chart,
// grouped by customer and colored by status.
type QtyByCustomer struct {
	Customer string  `json:"customer"`
	Status   string  `json:"status"`
	TotalQty float64 `json:"total_qty"`
}

// StatusShare is one slice of the status distribution pie chart.
type StatusShare struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TrendPoint is one month bucket of the reorder trend line: the count of
// "Reorder Soon" rows whose Last Due falls in that month.
type TrendPoint struct {
	Month string `json:"month"` // first day of the month, 2006-01-02
	Count int    `json:"count"`
}

// ReportCharts bundles the chart datasets for one filtered view.
type ReportCharts struct {
	QtyByCustomer []QtyByCustomer `json:"qty_by_customer"`
	StatusShare   []StatusShare   `json:"status_share"`
	ReorderTrend  []TrendPoint    `json:"reorder_trend"`
}

// ReportView is a rendered filtered view: display columns, formatted rows and
// the KPI summary.
type ReportView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary Summary    `json:"summary"`
}

// Facets describes the observed filter domains; the UI uses them as the
// default (include-everything) filter state.
type Facets struct {
	Customers []string `json:"customers"`
	Items     []string `json:"items"`
	Statuses  []string `json:"statuses"`
	MaxDays   int      `json:"max_days"`
	DueFrom   string   `json:"due_from,omitempty"`
	DueTo     string   `json:"due_to,omitempty"`
}
