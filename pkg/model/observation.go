// Package model holds the reference data types shared by the loaders, the
// table and the dashboard handlers.
package model

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a float that may be absent in the source data.
type Value struct {
	Float float64
	Valid bool
}

// Present wraps a known value.
func Present(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Absent is the missing value.
var Absent = Value{}

// ParseValue parses a raw cell. Empty cells and NaN spellings are absent;
// infinities are an error.
func ParseValue(raw string) (Value, error) {
	switch raw {
	case "", "NaN", "nan", "NA", "..":
		return Absent, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Absent, err
	}
	if math.IsNaN(f) {
		return Absent, nil
	}
	if math.IsInf(f, 0) {
		return Absent, fmt.Errorf("value %q is not finite", raw)
	}
	return Present(f), nil
}

// String formats the value for display; absent values render as "n/a".
func (v Value) String() string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// Observation is one (country, indicator, year) measurement. At most one
// Observation exists per (CountryCode, Indicator, Year); the loader assumes
// this of its input and does not check it.
type Observation struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"` // ISO-3
	Indicator   string `json:"indicator_name"`
	Year        int    `json:"year"`
	Value       Value  `json:"-"`
}

// HierarchyNode is one row of the taxonomy file behind the sunburst chart.
// An empty Parent marks a root.
type HierarchyNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Parent string  `json:"parent"`
	Value  float64 `json:"value"`
}

// IsRoot reports whether the node has no parent.
func (n HierarchyNode) IsRoot() bool {
	return n.Parent == ""
}
