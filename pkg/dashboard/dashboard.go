// Package dashboard is the reactive core: the handlers that turn control
// values into figures, the static figures built once at startup, and the
// registry and sessions that connect controls to handlers.
//
// A Dashboard is immutable once built and is shared by every session. A
// Session owns the control values of one viewer and is not shared.
package dashboard

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/loader"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// Dashboard is the process-wide read-only state.
type Dashboard struct {
	table     *table.Table
	colors    model.ColorLookup
	hierarchy []model.HierarchyNode
	opts      Options
	defaults  ControlState
	registry  *Registry
	static    map[OutputID]*chart.Figure
	headline  Headline
}

// New builds the static figures and the registry. data must not be
// modified afterwards.
func New(data *loader.Data, opts Options) (*Dashboard, error) {
	if data == nil || data.Table == nil {
		return nil, fmt.Errorf("dashboard: no indicator table")
	}
	opts = opts.withDefaults()
	if opts.MinYear > opts.MaxYear {
		return nil, fmt.Errorf("dashboard: year range %d-%d is empty", opts.MinYear, opts.MaxYear)
	}

	d := &Dashboard{
		table:     data.Table,
		colors:    data.Colors,
		hierarchy: slices.Clone(data.Hierarchy),
		opts:      opts,
	}
	d.defaults = d.initialState()

	registry, err := NewRegistry(
		Binding{
			Name:     "geo-value",
			Triggers: []ControlID{YearSlider, IndicatorSelector},
			Outputs:  []OutputID{GraphMap, GraphBar},
			Compute: func(s ControlState) map[OutputID]*chart.Figure {
				out := GeoValue(d.table, d.colors, GeoInput{
					Year:          s.Year,
					Indicator:     s.Indicator,
					TopN:          d.opts.TopN,
					FallbackColor: d.opts.FallbackColor,
				})
				return map[OutputID]*chart.Figure{GraphMap: out.Map, GraphBar: out.Bar}
			},
		},
		Binding{
			Name:     "bivariate",
			Triggers: []ControlID{XAxisColumn, YAxisColumn, IndicatorYear},
			Outputs:  []OutputID{ScatterGraphic},
			Compute: func(s ControlState) map[OutputID]*chart.Figure {
				return map[OutputID]*chart.Figure{
					ScatterGraphic: Bivariate(d.table, ScatterInput{X: s.XIndicator, Y: s.YIndicator, Year: s.ScatterYear}),
				}
			},
		},
	)
	if err != nil {
		return nil, err
	}
	d.registry = registry

	stop := metrics.Timer(metrics.StaticBuild)
	d.static = map[OutputID]*chart.Figure{
		SunburstChart:  BuildSunburst(d.hierarchy),
		TrajectoryPlot: BuildTrajectory(d.table),
	}
	stop()
	for _, m := range CheckTotals(d.hierarchy) {
		debug.Log("sunburst: %s has value %g but its children sum to %g", m.ID, m.Value, m.ChildSum)
	}

	d.headline = NewHeadline(d.table, d.hierarchy)
	debug.Log("dashboard ready: %d observations, %d indicators, %d frames",
		d.table.Len(), len(d.table.Indicators()), len(d.static[TrajectoryPlot].Frames))
	return d, nil
}

// initialState resolves the default control values. A default indicator the
// table does not carry is replaced by the first indicator in sorted order.
func (d *Dashboard) initialState() ControlState {
	pick := func(name string) string {
		if d.table.HasIndicator(name) {
			return name
		}
		if inds := d.table.Indicators(); len(inds) > 0 {
			debug.Log("default indicator %q not in table, using %q", name, inds[0])
			return inds[0]
		}
		return name
	}
	clamp := func(year int) int {
		return min(max(year, d.opts.MinYear), d.opts.MaxYear)
	}
	return ControlState{
		Indicator:   pick(d.opts.DefaultIndicator),
		Year:        clamp(d.opts.DefaultYear),
		YearRange:   YearRange{Min: d.opts.MinYear, Max: d.opts.MaxYear},
		XIndicator:  pick(d.opts.DefaultXIndicator),
		YIndicator:  pick(d.opts.DefaultYIndicator),
		ScatterYear: clamp(d.opts.DefaultScatterYear),
	}
}

// Table returns the shared indicator table.
func (d *Dashboard) Table() *table.Table { return d.table }

// Colors returns the shared color lookup.
func (d *Dashboard) Colors() model.ColorLookup { return d.colors }

// Options returns the resolved options.
func (d *Dashboard) Options() Options { return d.opts }

// Registry returns the control-to-handler table.
func (d *Dashboard) Registry() *Registry { return d.registry }

// Headline returns the summary shown above the charts.
func (d *Dashboard) Headline() Headline { return d.headline }

// Defaults returns the control values a new session starts with.
func (d *Dashboard) Defaults() ControlState { return d.defaults }

// Static returns a figure built at startup, or nil for a reactive output.
func (d *Dashboard) Static(out OutputID) *chart.Figure {
	return d.static[out]
}

// Controls describes every input control for the shells.
func (d *Dashboard) Controls() []Control {
	indicators := d.table.Indicators()
	return []Control{
		{ID: IndicatorSelector, Label: "Choose one WDI indicator", Kind: KindDropdown, Options: indicators},
		{
			ID: YearSlider, Label: "Drag the slider to change the year:", Kind: KindSlider,
			Min: d.opts.MinYear, Max: d.opts.MaxYear, Step: 1,
			Marks: SliderMarks(d.opts.MinYear, d.opts.MaxYear, d.opts.MarkStep),
		},
		{ID: IndicatorYear, Label: "Year:", Kind: KindDropdown, Options: yearOptions(d.opts.MinYear, d.opts.MaxYear)},
		{ID: XAxisColumn, Label: "Indicator X:", Kind: KindDropdown, Options: indicators},
		{ID: YAxisColumn, Label: "Indicator Y:", Kind: KindDropdown, Options: slices.Clone(indicators)},
	}
}

// Render computes every output for a control state: all bindings plus the
// static figures.
func (d *Dashboard) Render(state ControlState) map[OutputID]*chart.Figure {
	figs := run(d.registry.bindings, state)
	for id, f := range d.static {
		figs[id] = f
	}
	return figs
}

// Headline is the row of summary boxes above the charts.
type Headline struct {
	Countries  int `json:"countries"`
	Indicators int `json:"indicators"`
	FirstYear  int `json:"first_year"`
	LastYear   int `json:"last_year"`
	Dimensions int `json:"dimensions"`
	Topics     int `json:"topics"`
}

// NewHeadline counts countries, indicators and the year span of the table and
// the dimensions and topics of the taxonomy.
func NewHeadline(t *table.Table, hierarchy []model.HierarchyNode) Headline {
	s := t.Summary()
	dims, topics := TaxonomyCounts(hierarchy)
	return Headline{
		Countries:  s.Countries,
		Indicators: s.Indicators,
		FirstYear:  s.MinYear,
		LastYear:   s.MaxYear,
		Dimensions: dims,
		Topics:     topics,
	}
}

// Boxes renders the headline as the upper-case box captions.
func (h Headline) Boxes() []string {
	return []string{
		strconv.Itoa(h.Countries) + " COUNTRIES",
		strconv.Itoa(h.Indicators) + " INDICATORS",
		"FROM " + strconv.Itoa(h.FirstYear) + " TIL NOW",
		strconv.Itoa(h.Topics) + " TOPICS COVERED",
	}
}
