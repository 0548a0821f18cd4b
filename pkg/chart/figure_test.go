package chart

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func decode(t *testing.T, f *Figure) map[string]any {
	t.Helper()
	raw, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, raw)
	}
	return out
}

func TestEncode_EmptyFigureHasDataArray(t *testing.T) {
	out := decode(t, &Figure{})
	data, ok := out["data"].([]any)
	if !ok {
		t.Fatalf("data = %#v; want array", out["data"])
	}
	if len(data) != 0 {
		t.Fatalf("len(data)=%d; want 0", len(data))
	}
	if _, ok := out["frames"]; ok {
		t.Error("frames should be omitted when empty")
	}
}

func TestEncode_PlotlyNesting(t *testing.T) {
	choro := NewChoropleth([]string{"FRA"}, []float64{3})
	choro.Marker = &Outline{Line: Line{Color: "rgba(0,0,0,0)"}}
	bar := NewBar([]string{"France"}, []float64{3})
	bar.Marker.Colors = []string{"#0055A4"}

	f := &Figure{
		Data: []Trace{choro, bar},
		Layout: Layout{
			FontSize: 9,
			YAxis:    &Axis{Title: "GDP"},
			Geo:      &Geo{Scope: "world", ProjectionType: "natural earth"},
			Sliders:  []Slider{{Prefix: "Year: ", Steps: []SliderStep{{Label: "2000", Method: "animate"}}}},
		},
	}
	out := decode(t, f)

	data := out["data"].([]any)
	c := data[0].(map[string]any)
	if c["type"] != "choropleth" || c["locationmode"] != "ISO-3" {
		t.Errorf("choropleth = %v", c)
	}
	line := c["marker"].(map[string]any)["line"].(map[string]any)
	if line["color"] != "rgba(0,0,0,0)" {
		t.Errorf("marker.line.color = %v", line["color"])
	}
	b := data[1].(map[string]any)
	colors := b["marker"].(map[string]any)["color"].([]any)
	if len(colors) != 1 || colors[0] != "#0055A4" {
		t.Errorf("bar colors = %v", colors)
	}

	layout := out["layout"].(map[string]any)
	if layout["font"].(map[string]any)["size"].(float64) != 9 {
		t.Errorf("font = %v", layout["font"])
	}
	if layout["yaxis"].(map[string]any)["title"].(map[string]any)["text"] != "GDP" {
		t.Errorf("yaxis = %v", layout["yaxis"])
	}
	if layout["geo"].(map[string]any)["projection"].(map[string]any)["type"] != "natural earth" {
		t.Errorf("geo = %v", layout["geo"])
	}
	slider := layout["sliders"].([]any)[0].(map[string]any)
	if slider["currentvalue"].(map[string]any)["prefix"] != "Year: " {
		t.Errorf("slider = %v", slider)
	}
}

func TestEncode_ScatterLegendFields(t *testing.T) {
	grouped := NewScatter("France", []float64{1}, []float64{2})
	grouped.LegendGroup = "France"
	hidden := NewScatter("2000", []float64{1}, []float64{2})
	hidden.ShowLegend = false

	data := decode(t, &Figure{Data: []Trace{grouped, hidden}})["data"].([]any)
	g := data[0].(map[string]any)
	if g["legendgroup"] != "France" || g["showlegend"] != true {
		t.Errorf("grouped trace = %v", g)
	}
	h := data[1].(map[string]any)
	if _, ok := h["legendgroup"]; ok || h["showlegend"] != false {
		t.Errorf("hidden trace = %v", h)
	}
}

func TestFigure_Points(t *testing.T) {
	var nilFig *Figure
	if !nilFig.IsEmpty() {
		t.Error("nil figure should be empty")
	}
	f := &Figure{Data: []Trace{
		NewScatter("a", []float64{1, 2}, []float64{3, 4}),
		NewSunburst([]string{"r"}, []string{"r"}, []string{""}, []float64{1}),
	}}
	if f.Points() != 3 {
		t.Fatalf("Points=%d; want 3", f.Points())
	}
}

func TestEncodeIndent(t *testing.T) {
	raw, err := EncodeIndent(&Figure{Layout: Layout{Height: 400}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"layout\"") {
		t.Fatalf("not indented:\n%s", raw)
	}
}
