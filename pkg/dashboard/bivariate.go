package dashboard

import (
	"time"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// ScatterInput selects the bivariate scatter contents.
type ScatterInput struct {
	X    string
	Y    string
	Year int
}

const scatterMarkerSize = 20

// Bivariate plots the X indicator against the Y indicator for one year.
// Countries missing either value that year are dropped by the inner join on
// country name. Each country is its own trace so it gets its own legend
// entry and color; trace order follows the X subset.
func Bivariate(t *table.Table, in ScatterInput) *chart.Figure {
	defer metrics.TimerWithCallback(metrics.BivariateHandler, func(d time.Duration) {
		debug.LogTiming("Bivariate", d)
	})()

	year := t.Year(in.Year)
	pairs := table.InnerJoin(
		year.Indicator(in.X).Present(),
		year.Indicator(in.Y).Present(),
		table.ByCountryName,
	)

	palette := newPalette()
	traces := make([]chart.Trace, 0, len(pairs))
	for _, p := range pairs {
		name := p.Left.CountryName
		trace := chart.NewScatter(name, []float64{p.Left.Value.Float}, []float64{p.Right.Value.Float})
		trace.HoverName = name
		trace.LegendGroup = name
		trace.Marker = chart.Marker{Color: palette.colorFor(name), Size: scatterMarkerSize}
		traces = append(traces, trace)
	}

	return &chart.Figure{
		Data: traces,
		Layout: chart.Layout{
			Height:       600,
			Margin:       &chart.Margin{L: 40, B: 40, T: 10, R: 0},
			HoverMode:    "closest",
			PaperBGColor: panelColor,
			XAxis:        &chart.Axis{Title: in.X},
			YAxis:        &chart.Axis{Title: in.Y},
		},
	}
}
