package chart

// Choropleth colors map regions by value.
type Choropleth struct {
	Type         TraceType `json:"type"`
	Locations    []string  `json:"locations"`
	Z            []float64 `json:"z"`
	Text         []string  `json:"text,omitempty"`
	LocationMode string    `json:"locationmode"`
	ColorScale   string    `json:"colorscale"`
	ShowScale    bool      `json:"showscale"`
	ZMin         float64   `json:"zmin"`
	ZMax         float64   `json:"zmax"`
	Marker       *Outline  `json:"marker,omitempty"`
}

// Outline styles region borders.
type Outline struct {
	Line Line `json:"line"`
}

// Line is a stroke color and width.
type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width,omitempty"`
}

// NewChoropleth returns a choropleth trace keyed by ISO-3 codes.
func NewChoropleth(locations []string, z []float64) *Choropleth {
	return &Choropleth{
		Type:         TypeChoropleth,
		Locations:    locations,
		Z:            z,
		LocationMode: "ISO-3",
		ShowScale:    true,
	}
}

func (c *Choropleth) TraceType() TraceType { return TypeChoropleth }
func (c *Choropleth) Len() int { return len(c.Locations) }

// Bar is a categorical bar series.
type Bar struct {
	Type   TraceType `json:"type"`
	Name   string    `json:"name,omitempty"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Width  float64   `json:"width,omitempty"`
	Marker Marker    `json:"marker"`
}

// NewBar returns a bar trace with one bar per category.
func NewBar(categories []string, values []float64) *Bar {
	return &Bar{Type: TypeBar, X: categories, Y: values}
}

func (b *Bar) TraceType() TraceType { return TypeBar }
func (b *Bar) Len() int { return len(b.X) }

// Scatter is a numeric x/y series.
type Scatter struct {
	Type        TraceType `json:"type"`
	Name        string    `json:"name,omitempty"`
	Mode        string    `json:"mode"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	Text        []string  `json:"text,omitempty"`
	HoverName   string    `json:"hovertext,omitempty"`
	IDs         []string  `json:"ids,omitempty"`
	LegendGroup string    `json:"legendgroup,omitempty"`
	ShowLegend  bool      `json:"showlegend"`
	Marker      Marker    `json:"marker"`
}

// NewScatter returns a marker-only scatter trace.
func NewScatter(name string, x, y []float64) *Scatter {
	return &Scatter{Type: TypeScatter, Name: name, Mode: "markers", X: x, Y: y, ShowLegend: true}
}

func (s *Scatter) TraceType() TraceType { return TypeScatter }
func (s *Scatter) Len() int { return len(s.X) }

// Sunburst is a radial hierarchy.
type Sunburst struct {
	Type                  TraceType `json:"type"`
	IDs                   []string  `json:"ids"`
	Labels                []string  `json:"labels"`
	Parents               []string  `json:"parents"`
	Values                []float64 `json:"values"`
	BranchValues          string    `json:"branchvalues"`
	InsideTextOrientation string    `json:"insidetextorientation,omitempty"`
}

// BranchTotal makes a parent's value the total of its subtree.
const BranchTotal = "total"

// NewSunburst returns a sunburst trace with "total" branch values.
func NewSunburst(ids, labels, parents []string, values []float64) *Sunburst {
	return &Sunburst{
		Type:         TypeSunburst,
		IDs:          ids,
		Labels:       labels,
		Parents:      parents,
		Values:       values,
		BranchValues: BranchTotal,
	}
}

func (s *Sunburst) TraceType() TraceType { return TypeSunburst }
func (s *Sunburst) Len() int { return len(s.IDs) }

// Marker styles bars and points. Color holds either a single color or is
// empty when Colors is set.
type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"-"`
	Size   float64  `json:"size,omitempty"`
}

// MarshalJSON writes per-point colors under "color" as Plotly expects.
func (m Marker) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	switch {
	case len(m.Colors) > 0:
		out["color"] = m.Colors
	case m.Color != "":
		out["color"] = m.Color
	}
	if m.Size > 0 {
		out["size"] = m.Size
	}
	return jsonMarshal(out)
}
