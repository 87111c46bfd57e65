package pipeline

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

// reportTable builds the two-row table from the dashboard's worked example,
// plus a third row with missing values.
func reportTable() *domain.Table {
	t := domain.NewTable([]string{
		domain.ColCustomer,
		domain.ColItem,
		domain.ColStatus,
		domain.ColDaysUntilOut,
		domain.ColSuggestedQty,
		domain.ColLastDue,
	})
	t.Append(domain.Row{
		domain.TextCell("A"),
		domain.TextCell("W-1"),
		domain.TextCell(domain.StatusReorderSoon),
		domain.NumberCell(2),
		domain.NumberCell(10),
		domain.DateCell(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
	})
	t.Append(domain.Row{
		domain.TextCell("B"),
		domain.TextCell("K-2"),
		domain.TextCell(domain.StatusOK),
		domain.NumberCell(30),
		domain.NumberCell(5),
		domain.DateCell(time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)),
	})
	t.Append(domain.Row{
		domain.Cell{}, // blank customer
		domain.TextCell("K-2"),
		domain.TextCell(domain.StatusOK),
		domain.Cell{}, // missing days
		domain.NumberCell(3),
		domain.Cell{}, // missing due date
	})
	return t
}

func customers(t *domain.Table) []string {
	idx, _ := t.ColumnIndex(domain.ColCustomer)
	out := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, domain.NormalizeBlank(row[idx].String()))
	}
	return out
}

func TestFilterDefaultCriteriaSelectsEverything(t *testing.T) {
	table := reportTable()

	filtered := Filter(table, domain.Criteria{})

	assert.Equal(t, table.Len(), filtered.Len())
	assert.Empty(t, BuildPredicates(table, domain.Criteria{}))
}

func TestFilterCustomerSubset(t *testing.T) {
	filtered := Filter(reportTable(), domain.Criteria{
		Customers: domain.SelectSubset("A"),
	})

	assert.Equal(t, []string{"A"}, customers(filtered))
}

func TestFilterEmptySubsetExcludesAllRows(t *testing.T) {
	filtered := Filter(reportTable(), domain.Criteria{
		Customers: domain.SelectSubset(),
	})

	assert.Zero(t, filtered.Len())
}

func TestFilterBlankNormalization(t *testing.T) {
	filtered := Filter(reportTable(), domain.Criteria{
		Customers: domain.SelectSubset(domain.BlankLabel),
	})

	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, []string{domain.BlankLabel}, customers(filtered))
}

func TestFilterStatus(t *testing.T) {
	table := reportTable()

	soon := Filter(table, domain.Criteria{Status: domain.StatusReorderSoon})
	assert.Equal(t, []string{"A"}, customers(soon))

	all := Filter(table, domain.Criteria{Status: domain.StatusAll})
	assert.Equal(t, table.Len(), all.Len())
}

func TestFilterItemMembershipIsStringly(t *testing.T) {
	table := domain.NewTable([]string{domain.ColCustomer, domain.ColItemAlt})
	table.Append(domain.Row{domain.TextCell("A"), domain.NumberCell(1001)})
	table.Append(domain.Row{domain.TextCell("B"), domain.NumberCell(1002)})

	filtered := Filter(table, domain.Criteria{Items: domain.SelectSubset("1001")})

	assert.Equal(t, []string{"A"}, customers(filtered))
}

func TestFilterDaysCeilingMissingAlwaysPasses(t *testing.T) {
	limit := 10.0
	filtered := Filter(reportTable(), domain.Criteria{MaxDays: &limit})

	// row A (2 <= 10) and the missing-days row pass; row B (30) does not
	assert.Equal(t, []string{"A", domain.BlankLabel}, customers(filtered))
}

func TestFilterDaysCeilingIsInclusive(t *testing.T) {
	limit := 2.0
	filtered := Filter(reportTable(), domain.Criteria{MaxDays: &limit})

	assert.Equal(t, []string{"A", domain.BlankLabel}, customers(filtered))
}

func TestFilterDateRangeInclusiveAndMissingPasses(t *testing.T) {
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	filtered := Filter(reportTable(), domain.Criteria{DueFrom: &from, DueTo: &to})

	// row A is on the range start, the blank row has no date
	assert.Equal(t, []string{"A", domain.BlankLabel}, customers(filtered))
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	table := reportTable()

	matched := Filter(table, domain.Criteria{Search: "a"})
	assert.Equal(t, []string{"A"}, customers(matched))

	empty := Filter(table, domain.Criteria{Search: "   "})
	assert.Equal(t, table.Len(), empty.Len())

	byNumber := Filter(table, domain.Criteria{Search: "30"})
	assert.Equal(t, []string{"B"}, customers(byNumber))
}

func TestFilterIsIdempotent(t *testing.T) {
	table := reportTable()
	criteria := domain.Criteria{Status: domain.StatusOK, Search: "k-2"}

	once := Filter(table, criteria)
	twice := Filter(once, criteria)

	assert.Equal(t, once.Rows, twice.Rows)
}

func TestFilterPredicateOrderIsIrrelevant(t *testing.T) {
	table := reportTable()
	limit := 35.0
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	criteria := domain.Criteria{
		Customers: domain.SelectSubset("A", "B"),
		Status:    domain.StatusOK,
		MaxDays:   &limit,
		DueFrom:   &from,
		Search:    "k",
	}

	preds := BuildPredicates(table, criteria)
	require.Len(t, preds, 5)

	forward := Apply(table, preds)

	reversed := slices.Clone(preds)
	slices.Reverse(reversed)
	backward := Apply(table, reversed)

	assert.Equal(t, forward.Rows, backward.Rows)
	assert.Equal(t, []string{"B"}, customers(forward))
}

func TestFilterMissingColumnDegradesToNeutral(t *testing.T) {
	table := domain.NewTable([]string{domain.ColCustomer})
	table.Append(domain.Row{domain.TextCell("A")})

	limit := 1.0
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filtered := Filter(table, domain.Criteria{
		Items:   domain.SelectSubset("nope"),
		Status:  domain.StatusReorderSoon,
		MaxDays: &limit,
		DueFrom: &from,
	})

	assert.Equal(t, 1, filtered.Len())
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	table := reportTable()
	before := table.Len()

	_ = Filter(table, domain.Criteria{Customers: domain.SelectSubset()})

	assert.Equal(t, before, table.Len())
}
