package dashboard

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// TrajectoryStartYear is the first year of the trajectory animation.
const TrajectoryStartYear = 2000

const (
	frameDuration      = 300
	transitionDuration = 100
)

// BuildTrajectory animates life expectancy against GDP per capita, one frame
// per year from TrajectoryStartYear, in ascending year order. A country keeps
// the same color in every frame. The figure's initial data is the first frame.
func BuildTrajectory(t *table.Table) *chart.Figure {
	since := func(o model.Observation) bool { return o.Year >= TrajectoryStartYear }
	pairs := table.InnerJoin(
		t.Indicator(GDPPerCapitaIndicator).Where(since).Present(),
		t.Indicator(LifeExpectancyIndicator).Where(since).Present(),
		table.ByCountryNameAndYear,
	)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Left.Year < pairs[j].Left.Year })

	palette := newPalette()
	var frames []chart.Frame
	var xs, ys []float64
	for start := 0; start < len(pairs); {
		year := pairs[start].Left.Year
		end := start
		for end < len(pairs) && pairs[end].Left.Year == year {
			end++
		}
		frames = append(frames, trajectoryFrame(year, pairs[start:end], palette))
		for _, p := range pairs[start:end] {
			xs = append(xs, p.Left.Value.Float)
			ys = append(ys, p.Right.Value.Float)
		}
		start = end
	}

	layout := chart.Layout{
		Height:     540,
		Transition: &chart.Transition{Duration: transitionDuration},
		XAxis:      &chart.Axis{Title: "GDP per capita", Range: paddedRange(xs)},
		YAxis:      &chart.Axis{Title: "Life expectancy", Range: paddedRange(ys)},
		HoverMode:  "closest",
	}
	fig := &chart.Figure{Layout: layout, Frames: frames}
	if len(frames) > 0 {
		fig.Data = append([]chart.Trace(nil), frames[0].Data...)
		fig.Layout.Sliders = []chart.Slider{trajectorySlider(frames)}
		fig.Layout.UpdateMenus = []chart.Menu{playPauseMenu()}
	}
	return fig
}

func trajectoryFrame(year int, pairs []table.Pair, palette *palette) chart.Frame {
	x := make([]float64, len(pairs))
	y := make([]float64, len(pairs))
	names := make([]string, len(pairs))
	colors := make([]string, len(pairs))
	for i, p := range pairs {
		x[i] = p.Left.Value.Float
		y[i] = p.Right.Value.Float
		names[i] = p.Left.CountryName
		colors[i] = palette.colorFor(p.Left.CountryName)
	}
	name := strconv.Itoa(year)
	trace := chart.NewScatter(name, x, y)
	trace.Text = names
	trace.IDs = names
	trace.ShowLegend = false
	trace.Marker = chart.Marker{Colors: colors}
	return chart.Frame{Name: name, Data: []chart.Trace{trace}, Traces: []int{0}}
}

func animateArgs(frame any, duration int) []any {
	return []any{frame, map[string]any{
		"frame":       map[string]any{"duration": duration, "redraw": false},
		"mode":        "immediate",
		"fromcurrent": true,
		"transition":  map[string]any{"duration": transitionDuration},
	}}
}

func trajectorySlider(frames []chart.Frame) chart.Slider {
	steps := make([]chart.SliderStep, len(frames))
	for i, f := range frames {
		steps[i] = chart.SliderStep{
			Label:  f.Name,
			Method: "animate",
			Args:   animateArgs([]string{f.Name}, frameDuration),
		}
	}
	return chart.Slider{Prefix: "Year: ", Steps: steps}
}

func playPauseMenu() chart.Menu {
	return chart.Menu{
		Type: "buttons",
		Buttons: []chart.Button{
			{Label: "Play", Method: "animate", Args: animateArgs(nil, frameDuration)},
			{Label: "Pause", Method: "animate", Args: animateArgs([]any{nil}, 0)},
		},
	}
}

// paddedRange widens [min, max] by 5% on each side so points never sit on
// the frame edge; nil for no data lets the renderer autorange.
func paddedRange(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return []float64{lo - pad, hi + pad}
}
