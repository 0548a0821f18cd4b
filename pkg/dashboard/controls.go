package dashboard

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownControl is returned for a change naming a control the dashboard does not have.
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidValue is returned for a control value that cannot be applied.
	ErrInvalidValue = errors.New("invalid control value")
)

// ControlID names an input control.
type ControlID string

const (
	IndicatorSelector ControlID = "indicator-selector"
	YearSlider        ControlID = "year-slider"
	IndicatorYear     ControlID = "indicator-year"
	XAxisColumn       ControlID = "xaxis-column"
	YAxisColumn       ControlID = "yaxis-column"
)

// ControlIDs lists every control in display order.
func ControlIDs() []ControlID {
	return []ControlID{IndicatorSelector, YearSlider, IndicatorYear, XAxisColumn, YAxisColumn}
}

// OutputID names a chart placeholder.
type OutputID string

const (
	GraphMap       OutputID = "graph-map"
	GraphBar       OutputID = "graph-bar"
	ScatterGraphic OutputID = "indicator-graphic"
	SunburstChart  OutputID = "sunburst"
	TrajectoryPlot OutputID = "trajectory"
)

// OutputIDs lists every output in display order.
func OutputIDs() []OutputID {
	return []OutputID{GraphMap, GraphBar, ScatterGraphic, SunburstChart, TrajectoryPlot}
}

// Indicator names used by defaults and the trajectory chart.
const (
	BirthRateIndicator      = "Birth rate, crude (per 1,000 people)"
	FertilityIndicator      = "Fertility rate, total (births per woman)"
	LifeExpectancyIndicator = "Life expectancy at birth, total (years)"
	GDPPerCapitaIndicator   = "GDP per capita (constant 2015 US$)"
)

// Options are the startup settings of a dashboard.
type Options struct {
	DefaultIndicator   string
	DefaultXIndicator  string
	DefaultYIndicator  string
	DefaultYear        int
	DefaultScatterYear int
	MinYear            int
	MaxYear            int
	MarkStep           int
	TopN               int
	FallbackColor      string
}

// DefaultOptions returns the stock dashboard settings.
func DefaultOptions() Options {
	return Options{
		DefaultIndicator:   BirthRateIndicator,
		DefaultXIndicator:  FertilityIndicator,
		DefaultYIndicator:  LifeExpectancyIndicator,
		DefaultYear:        1960,
		DefaultScatterYear: 2010,
		MinYear:            1960,
		MaxYear:            2020,
		MarkStep:           10,
		TopN:               DefaultTopN,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DefaultIndicator == "" {
		o.DefaultIndicator = d.DefaultIndicator
	}
	if o.DefaultXIndicator == "" {
		o.DefaultXIndicator = d.DefaultXIndicator
	}
	if o.DefaultYIndicator == "" {
		o.DefaultYIndicator = d.DefaultYIndicator
	}
	if o.MinYear == 0 {
		o.MinYear = d.MinYear
	}
	if o.MaxYear == 0 {
		o.MaxYear = d.MaxYear
	}
	if o.DefaultYear == 0 {
		o.DefaultYear = o.MinYear
	}
	if o.DefaultScatterYear == 0 {
		o.DefaultScatterYear = d.DefaultScatterYear
	}
	if o.MarkStep <= 0 {
		o.MarkStep = d.MarkStep
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	return o
}

// YearRange is the inclusive span offered by the year controls.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies in the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// ControlState is the set of control values of one session.
type ControlState struct {
	Indicator   string    `json:"indicator"`
	Year        int       `json:"year"`
	YearRange   YearRange `json:"year_range"`
	XIndicator  string    `json:"x_indicator"`
	YIndicator  string    `json:"y_indicator"`
	ScatterYear int       `json:"scatter_year"`
}

// Value returns the current value of a control as text.
func (s ControlState) Value(id ControlID) (string, error) {
	switch id {
	case IndicatorSelector:
		return s.Indicator, nil
	case YearSlider:
		return strconv.Itoa(s.Year), nil
	case IndicatorYear:
		return strconv.Itoa(s.ScatterYear), nil
	case XAxisColumn:
		return s.XIndicator, nil
	case YAxisColumn:
		return s.YIndicator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownControl, id)
}

// with returns a copy of s with the change applied. Indicator names are not
// checked against the table: an unknown indicator renders empty charts.
func (s ControlState) with(c Change) (ControlState, error) {
	switch c.Control {
	case IndicatorSelector:
		s.Indicator = c.Value
	case XAxisColumn:
		s.XIndicator = c.Value
	case YAxisColumn:
		s.YIndicator = c.Value
	case YearSlider, IndicatorYear:
		year, err := strconv.Atoi(c.Value)
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q is not a year", ErrInvalidValue, c.Control, c.Value)
		}
		if !s.YearRange.Contains(year) {
			return s, fmt.Errorf("%w: %s=%d outside %d-%d", ErrInvalidValue, c.Control, year, s.YearRange.Min, s.YearRange.Max)
		}
		if c.Control == YearSlider {
			s.Year = year
		} else {
			s.ScatterYear = year
		}
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownControl, c.Control)
	}
	return s, nil
}

// Change is one user edit of a control.
type Change struct {
	Control ControlID `json:"control"`
	Value   string    `json:"value"`
}

// SetYear builds a change for a year control.
func SetYear(id ControlID, year int) Change {
	return Change{Control: id, Value: strconv.Itoa(year)}
}

// ControlKind distinguishes how a control is drawn.
type ControlKind string

const (
	KindDropdown ControlKind = "dropdown"
	KindSlider   ControlKind = "slider"
)

// Mark is a labelled slider tick.
type Mark struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Control describes one input for the shells.
type Control struct {
	ID      ControlID   `json:"id"`
	Label   string      `json:"label"`
	Kind    ControlKind `json:"kind"`
	Options []string    `json:"options,omitempty"`
	Min     int         `json:"min,omitempty"`
	Max     int         `json:"max,omitempty"`
	Step    int         `json:"step,omitempty"`
	Marks   []Mark      `json:"marks,omitempty"`
}

// SliderMarks returns a mark every step years from first to last, labelled "Year1960" and so on.
func SliderMarks(first, last, step int) []Mark {
	if step <= 0 {
		return nil
	}
	var marks []Mark
	for y := first; y <= last; y += step {
		marks = append(marks, Mark{Value: y, Label: "Year" + strconv.Itoa(y)})
	}
	return marks
}

func yearOptions(first, last int) []string {
	out := make([]string, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}
