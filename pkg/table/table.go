// Package table is the in-memory Indicator Table: an immutable set of
// observations with the handful of filter, sort and join operations the
// dashboard handlers are built from.
//
// A Table is built once at startup and never mutated afterwards, so it can be
// shared by every session without locking. Every accessor hands out copies.
package table

import (
	"sort"

	"github.com/vanderheijden86/wdiview/pkg/model"
)

// Table is the immutable indicator table.
type Table struct {
	rows        []model.Observation
	byIndicator map[string][]int
	indicators  []string
	countries   map[string]string // code -> name
	minYear     int
	maxYear     int
}

// New builds a Table from rows. The slice is copied; row order is kept.
func New(rows []model.Observation) *Table {
	t := &Table{
		rows:        make([]model.Observation, len(rows)),
		byIndicator: make(map[string][]int),
		countries:   make(map[string]string),
	}
	copy(t.rows, rows)

	for i, r := range t.rows {
		if _, ok := t.byIndicator[r.Indicator]; !ok {
			t.indicators = append(t.indicators, r.Indicator)
		}
		t.byIndicator[r.Indicator] = append(t.byIndicator[r.Indicator], i)
		if _, ok := t.countries[r.CountryCode]; !ok {
			t.countries[r.CountryCode] = r.CountryName
		}
		if i == 0 || r.Year < t.minYear {
			t.minYear = r.Year
		}
		if i == 0 || r.Year > t.maxYear {
			t.maxYear = r.Year
		}
	}
	sort.Strings(t.indicators)
	return t
}

// Len returns the number of observations.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of every observation in load order.
func (t *Table) Rows() Rows {
	out := make(Rows, len(t.rows))
	copy(out, t.rows)
	return out
}

// Indicators returns the distinct indicator names, sorted.
func (t *Table) Indicators() []string {
	out := make([]string, len(t.indicators))
	copy(out, t.indicators)
	return out
}

// HasIndicator reports whether any observation carries the indicator name.
func (t *Table) HasIndicator(name string) bool {
	_, ok := t.byIndicator[name]
	return ok
}

// YearSpan returns the smallest and largest year in the table.
// Both are zero for an empty table.
func (t *Table) YearSpan() (int, int) {
	return t.minYear, t.maxYear
}

// Indicator returns the observations of one indicator in load order.
// An unknown indicator yields an empty result.
func (t *Table) Indicator(name string) Rows {
	idx := t.byIndicator[name]
	out := make(Rows, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.rows[i])
	}
	return out
}

// Year returns every observation for the given year in load order.
func (t *Table) Year(year int) Rows {
	return t.Where(func(o model.Observation) bool { return o.Year == year })
}

// Where returns the observations matching keep, in load order.
func (t *Table) Where(keep func(model.Observation) bool) Rows {
	var out Rows
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
