package domain

import (
	"slices"
	"strings"
	"time"
)

// Status values carried by the report. StatusAll is the neutral filter choice.
const (
	StatusAll         = "All"
	StatusReorderSoon = "Reorder Soon"
	StatusOK          = "OK"
)

// BlankLabel is the display sentinel for missing categorical values. The
// stored cell is never rewritten; normalization applies to filtering and
// display only.
const BlankLabel = "(Blank)"

// NormalizeBlank maps an empty categorical value to the blank sentinel.
func NormalizeBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return BlankLabel
	}
	return s
}

// Selection is a tagged choice between "select all" and an explicit subset of
// labels. The zero value selects everything, so an absent criterion is the
// neutral one. An explicit empty subset matches nothing.
type Selection struct {
	subset bool
	values map[string]struct{}
}

// SelectAll returns the selection that matches every label.
func SelectAll() Selection { return Selection{} }

// SelectSubset returns a selection matching exactly the given labels.
func SelectSubset(values ...string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Selection{subset: true, values: set}
}

// IsAll reports whether the selection matches every label.
func (s Selection) IsAll() bool { return !s.subset }

// Matches reports whether a (blank-normalized) label is selected.
func (s Selection) Matches(label string) bool {
	if !s.subset {
		return true
	}
	_, ok := s.values[label]
	return ok
}

// Values returns the subset labels in sorted order; nil for select-all.
func (s Selection) Values() []string {
	if !s.subset {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Criteria is the full set of filter inputs. Every field is optional; the
// zero value selects the whole table.
type Criteria struct {
	Customers Selection
	Items     Selection
	Status    string // StatusAll (or empty) matches every row
	MaxDays   *float64
	DueFrom   *time.Time
	DueTo     *time.Time
	Search    string
}
