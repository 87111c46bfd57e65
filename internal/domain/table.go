package domain

import (
	"slices"
	"strconv"
	"time"
)

// Well-known report columns. The loader keeps whatever extra columns the
// workbook carries; these are the ones the pipeline understands.
const (
	ColCustomer         = "Customer"
	ColItem             = "Item"
	ColItemAlt          = "Item #"
	ColStatus           = "Status"
	ColDaysUntilOut     = "Days Until Out"
	ColSuggestedQty     = "Suggested Order Qty"
	ColLastDue          = "Last Due"
	ColSuggestedReorder = "Suggested Reorder Date"
)

// DateLayout is the display format for date cells.
const DateLayout = "2006-01-02"

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a single typed value in a report row. The zero value is an empty
// cell, which stands in for a missing/NaN value from the source workbook.
type Cell struct {
	Kind   CellKind  `json:"k"`
	Text   string    `json:"t,omitempty"`
	Number float64   `json:"n,omitempty"`
	Date   time.Time `json:"d,omitempty"`
}

func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// Float returns the numeric value and whether the cell holds one.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Number, true
}

// Time returns the date value and whether the cell holds one.
func (c Cell) Time() (time.Time, bool) {
	if c.Kind != CellDate {
		return time.Time{}, false
	}
	return c.Date, true
}

// String renders the cell the way it is displayed, exported and searched.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format(DateLayout)
	default:
		return ""
	}
}

// Row is a sequence of cells aligned with the owning table's column order.
type Row []Cell

// Table is an ordered report: a shared column set plus rows in insertion
// order. Rows are never mutated after load; derivation and filtering build
// new tables.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func NewTable(columns []string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// ItemColumn returns the name of the item identifier column: "Item" when
// present, otherwise "Item #".
func (t *Table) ItemColumn() (string, bool) {
	if t.HasColumn(ColItem) {
		return ColItem, true
	}
	if t.HasColumn(ColItemAlt) {
		return ColItemAlt, true
	}
	return "", false
}

// Append adds a row, padding or truncating it to the table's column count.
func (t *Table) Append(row Row) {
	switch {
	case len(row) < len(t.Columns):
		padded := make(Row, len(t.Columns))
		copy(padded, row)
		row = padded
	case len(row) > len(t.Columns):
		row = row[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, row)
}

// Cell returns the value of the named column in a row, or an empty cell when
// the column does not exist.
func (t *Table) Cell(row Row, column string) Cell {
	idx, ok := t.ColumnIndex(column)
	if !ok || idx >= len(row) {
		return Cell{}
	}
	return row[idx]
}
