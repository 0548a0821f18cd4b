package table

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/wdiview/pkg/model"
)

// Rows is an ordered selection of observations. Operations never modify the
// receiver; they return new slices.
type Rows []model.Observation

// Year keeps rows for one year.
func (r Rows) Year(year int) Rows {
	return r.Where(func(o model.Observation) bool { return o.Year == year })
}

// Indicator keeps rows for one indicator name.
func (r Rows) Indicator(name string) Rows {
	return r.Where(func(o model.Observation) bool { return o.Indicator == name })
}

// Present drops rows whose value is absent.
func (r Rows) Present() Rows {
	return r.Where(func(o model.Observation) bool { return o.Value.Valid })
}

// Where keeps rows matching keep.
func (r Rows) Where(keep func(model.Observation) bool) Rows {
	out := make(Rows, 0, len(r))
	for _, o := range r {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// SortByValueDesc returns a copy ordered by value, largest first. Absent
// values sort last; ties are broken by country name so the order is
// deterministic.
func (r Rows) SortByValueDesc() Rows {
	out := make(Rows, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Float != b.Float {
			return a.Float > b.Float
		}
		return out[i].CountryName < out[j].CountryName
	})
	return out
}

// SortByYear returns a copy ordered by ascending year, keeping load order
// within a year.
func (r Rows) SortByYear() Rows {
	out := make(Rows, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Head returns at most the first n rows.
func (r Rows) Head(n int) Rows {
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	out := make(Rows, n)
	copy(out, r[:n])
	return out
}

// Values returns the present values in row order.
func (r Rows) Values() []float64 {
	out := make([]float64, 0, len(r))
	for _, o := range r {
		if o.Value.Valid {
			out = append(out, o.Value.Float)
		}
	}
	return out
}

// Max returns the largest present value; ok is false when there is none.
func (r Rows) Max() (max float64, ok bool) {
	vals := r.Values()
	if len(vals) == 0 {
		return 0, false
	}
	return floats.Max(vals), true
}

// CountryCodes returns the country codes in row order.
func (r Rows) CountryCodes() []string {
	out := make([]string, len(r))
	for i, o := range r {
		out[i] = o.CountryCode
	}
	return out
}

// Stats summarises the present values of a selection.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Stats computes summary statistics over the present values.
func (r Rows) Stats() Stats {
	vals := r.Values()
	if len(vals) == 0 {
		return Stats{}
	}
	sort.Float64s(vals)
	return Stats{
		Count:  len(vals),
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   stat.Mean(vals, nil),
		Median: stat.Quantile(0.5, stat.Empirical, vals, nil),
	}
}
