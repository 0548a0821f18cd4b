package table

// Summary is the headline description of a table shown above the charts.
type Summary struct {
	Observations int `json:"observations"`
	Present      int `json:"present"`
	Countries    int `json:"countries"`
	Indicators   int `json:"indicators"`
	MinYear      int `json:"min_year"`
	MaxYear      int `json:"max_year"`
}

// Summary counts the distinct countries and indicators and the year span.
func (t *Table) Summary() Summary {
	present := 0
	for _, r := range t.rows {
		if r.Value.Valid {
			present++
		}
	}
	return Summary{
		Observations: len(t.rows),
		Present:      present,
		Countries:    len(t.countries),
		Indicators:   len(t.indicators),
		MinYear:      t.minYear,
		MaxYear:      t.maxYear,
	}
}
