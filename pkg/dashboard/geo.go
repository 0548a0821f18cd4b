package dashboard

import (
	"time"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// DefaultTopN is the number of bars in the ranked bar chart.
const DefaultTopN = 15

const (
	transparent   = "rgba(0,0,0,0)"
	panelColor    = "#F9F9F8"
	mapColorScale = "matter"
)

// GeoInput selects the map and bar chart contents.
type GeoInput struct {
	Year      int
	Indicator string
	// TopN caps the bar chart; zero means DefaultTopN.
	TopN int
	// FallbackColor colors bars of countries missing from the color lookup;
	// empty means model.DefaultFallbackColor.
	FallbackColor string
}

// GeoOutput is the map and bar chart pair for one (year, indicator).
type GeoOutput struct {
	Map      *chart.Figure
	Bar      *chart.Figure
	MaxValue float64
}

// GeoValue builds the choropleth and the ranked bar chart. The color scale
// tops out at the indicator's maximum over all years, so it does not move
// with the year slider. Both charts come from the same year filter; absent
// values appear in neither.
func GeoValue(t *table.Table, colors model.ColorLookup, in GeoInput) GeoOutput {
	defer metrics.TimerWithCallback(metrics.GeoValueHandler, func(d time.Duration) {
		debug.LogTiming("GeoValue", d)
	})()

	topN := in.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	subset := t.Indicator(in.Indicator)
	maxValue, _ := subset.Max()
	filtered := subset.Year(in.Year).Present()

	return GeoOutput{
		Map:      choroplethFigure(filtered, maxValue),
		Bar:      rankedBarFigure(filtered.SortByValueDesc().Head(topN), in.Indicator, colors, in.FallbackColor),
		MaxValue: maxValue,
	}
}

func choroplethFigure(rows table.Rows, maxValue float64) *chart.Figure {
	trace := chart.NewChoropleth(rows.CountryCodes(), rows.Values())
	trace.Text = countryNames(rows)
	trace.ColorScale = mapColorScale
	trace.ZMin = 0
	trace.ZMax = maxValue
	trace.Marker = &chart.Outline{Line: chart.Line{Color: transparent}}

	return &chart.Figure{
		Data: []chart.Trace{trace},
		Layout: chart.Layout{
			Geo: &chart.Geo{
				Scope:           "world",
				ProjectionType:  "natural earth",
				ProjectionScale: 1.1,
				BGColor:         transparent,
			},
			Transition:   &chart.Transition{Duration: 100},
			Margin:       chart.ZeroMargin(),
			PaperBGColor: transparent,
			PlotBGColor:  transparent,
		},
	}
}

func rankedBarFigure(rows table.Rows, indicator string, colors model.ColorLookup, fallback string) *chart.Figure {
	barColors := make([]string, len(rows))
	for i, o := range rows {
		if _, ok := colors.Lookup(o.CountryCode); !ok {
			debug.Log("no color for %s, using %s", o.CountryCode, fallback)
		}
		barColors[i] = colors.ColorFor(o.CountryCode, fallback)
	}
	trace := chart.NewBar(countryNames(rows), rows.Values())
	trace.Width = 0.6
	trace.Marker.Colors = barColors

	return &chart.Figure{
		Data: []chart.Trace{trace},
		Layout: chart.Layout{
			Transition:   &chart.Transition{Duration: 100},
			FontSize:     9,
			Height:       400,
			AutoSize:     true,
			XAxis:        &chart.Axis{},
			YAxis:        &chart.Axis{Title: indicator, FixedRange: true},
			Legend:       &chart.Legend{Orientation: "v"},
			PaperBGColor: panelColor,
			PlotBGColor:  panelColor,
		},
	}
}

func countryNames(rows table.Rows) []string {
	out := make([]string, len(rows))
	for i, o := range rows {
		out[i] = o.CountryName
	}
	return out
}
