package table

import (
	"strconv"

	"github.com/vanderheijden86/wdiview/pkg/model"
)

// Pair is one joined row.
type Pair struct {
	Left  model.Observation
	Right model.Observation
}

// KeyFunc extracts a join key from an observation.
type KeyFunc func(model.Observation) string

// ByCountryName joins on the country name.
func ByCountryName(o model.Observation) string {
	return o.CountryName
}

// ByCountryNameAndYear joins on (country name, year).
func ByCountryNameAndYear(o model.Observation) string {
	return o.CountryName + "\x00" + strconv.Itoa(o.Year)
}

// InnerJoin pairs every left row with every right row sharing its key.
// Rows without a partner on the other side are dropped. The output follows
// left order, and right order within one left row.
func InnerJoin(left, right Rows, key KeyFunc) []Pair {
	index := make(map[string][]int, len(right))
	for i, o := range right {
		k := key(o)
		index[k] = append(index[k], i)
	}

	var out []Pair
	for _, l := range left {
		for _, i := range index[key(l)] {
			out = append(out, Pair{Left: l, Right: right[i]})
		}
	}
	return out
}
