package chart

import json "github.com/goccy/go-json"

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Layout holds the figure-level options the dashboard sets.
type Layout struct {
	Title        string      `json:"title,omitempty"`
	Height       int         `json:"height,omitempty"`
	AutoSize     bool        `json:"autosize,omitempty"`
	Margin       *Margin     `json:"margin,omitempty"`
	FontSize     int         `json:"-"`
	XAxis        *Axis       `json:"xaxis,omitempty"`
	YAxis        *Axis       `json:"yaxis,omitempty"`
	Geo          *Geo        `json:"geo,omitempty"`
	PaperBGColor string      `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string      `json:"plot_bgcolor,omitempty"`
	HoverMode    string      `json:"hovermode,omitempty"`
	Legend       *Legend     `json:"legend,omitempty"`
	Transition   *Transition `json:"transition,omitempty"`
	Sliders      []Slider    `json:"sliders,omitempty"`
	UpdateMenus  []Menu      `json:"updatemenus,omitempty"`
}

// MarshalJSON nests FontSize under "font" as Plotly expects.
func (l Layout) MarshalJSON() ([]byte, error) {
	type alias Layout
	out := struct {
		alias
		Font *Font `json:"font,omitempty"`
	}{alias: alias(l)}
	if l.FontSize > 0 {
		out.Font = &Font{Size: l.FontSize}
	}
	return json.Marshal(out)
}

// Font is a Plotly font block.
type Font struct {
	Size int `json:"size"`
}

// Margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// ZeroMargin removes all figure padding.
func ZeroMargin() *Margin {
	return &Margin{}
}

// Axis configures one cartesian axis.
type Axis struct {
	Title      string    `json:"-"`
	FixedRange bool      `json:"fixedrange"`
	Range      []float64 `json:"range,omitempty"`
	AxisType   string    `json:"type,omitempty"`
}

// MarshalJSON nests Title under {"title":{"text":...}}.
func (a Axis) MarshalJSON() ([]byte, error) {
	type alias Axis
	out := struct {
		alias
		Title *struct {
			Text string `json:"text"`
		} `json:"title,omitempty"`
	}{alias: alias(a)}
	if a.Title != "" {
		out.Title = &struct {
			Text string `json:"text"`
		}{Text: a.Title}
	}
	return json.Marshal(out)
}

// Geo configures the map projection of a choropleth.
type Geo struct {
	Scope           string  `json:"scope"`
	ProjectionType  string  `json:"-"`
	ProjectionScale float64 `json:"-"`
	BGColor         string  `json:"bgcolor,omitempty"`
	ShowFrame       bool    `json:"showframe"`
}

// MarshalJSON nests the projection options.
func (g Geo) MarshalJSON() ([]byte, error) {
	type alias Geo
	type projection struct {
		Type  string  `json:"type,omitempty"`
		Scale float64 `json:"scale,omitempty"`
	}
	out := struct {
		alias
		Projection *projection `json:"projection,omitempty"`
	}{alias: alias(g)}
	if g.ProjectionType != "" || g.ProjectionScale != 0 {
		out.Projection = &projection{Type: g.ProjectionType, Scale: g.ProjectionScale}
	}
	return json.Marshal(out)
}

// Legend placement.
type Legend struct {
	Orientation string `json:"orientation,omitempty"`
}

// Transition animates figure replacement.
type Transition struct {
	Duration int `json:"duration"`
}

// Slider drives animation frames.
type Slider struct {
	Active int          `json:"active"`
	Prefix string       `json:"-"`
	Steps  []SliderStep `json:"steps"`
}

// MarshalJSON writes the prefix under currentvalue.
func (s Slider) MarshalJSON() ([]byte, error) {
	type alias Slider
	out := struct {
		alias
		CurrentValue map[string]string `json:"currentvalue,omitempty"`
	}{alias: alias(s)}
	if s.Prefix != "" {
		out.CurrentValue = map[string]string{"prefix": s.Prefix}
	}
	return json.Marshal(out)
}

// SliderStep jumps to one frame.
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Menu is a button group, used for play/pause.
type Menu struct {
	Type       string   `json:"type"`
	ShowActive bool     `json:"showactive"`
	Buttons    []Button `json:"buttons"`
}

// Button is one menu entry.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}
