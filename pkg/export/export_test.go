package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wdiview/pkg/chart"
)

func sampleBar() *chart.Figure {
	b := chart.NewBar([]string{"Chad", "Peru", "Atlantis"}, []float64{9, 5, 1})
	b.Marker.Colors = []string{"#FECB00", "rgb(217,16,35)", "#9E9E9E"}
	return &chart.Figure{
		Data:   []chart.Trace{b},
		Layout: chart.Layout{Height: 400, YAxis: &chart.Axis{Title: "GDP growth"}},
	}
}

func sampleTrajectory() *chart.Figure {
	mk := func(year string, x, y float64) chart.Frame {
		s := chart.NewScatter(year, []float64{x}, []float64{y})
		s.Marker.Colors = []string{"#636EFA"}
		return chart.Frame{Name: year, Data: []chart.Trace{s}}
	}
	frames := []chart.Frame{mk("2000", 1, 2), mk("2001", 2, 3)}
	return &chart.Figure{Data: frames[0].Data, Frames: frames, Layout: chart.Layout{Height: 540}}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, ".PNG": FormatPNG, " json ": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q)=%q,%v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("gif accepted")
	}
}

func TestSaveFigure_SVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bar.svg")
	if err := SaveFigure(sampleBar(), Options{Path: path, Title: "Top countries"}); err != nil {
		t.Fatalf("SaveFigure: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(raw)
	for _, want := range []string{"<svg", "Top countries", "Chad", "#fecb00", "#d91023", "GDP growth"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSaveFigure_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.png")
	if err := SaveFigure(sampleBar(), Options{Path: path, Width: 320}); err != nil {
		t.Fatalf("SaveFigure: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 400 {
		t.Fatalf("size %dx%d; want 320x400 (layout height)", b.Dx(), b.Dy())
	}
}

func TestSaveFigure_JSONAndDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := SaveFigure(sampleBar(), Options{Path: filepath.Join(dir, "bar.json")}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "bar.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if err := SaveFigure(sampleBar(), Options{Path: filepath.Join(dir, "noext")}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "noext.svg")); err != nil {
		t.Fatalf("missing extension should default to svg: %v", err)
	}

	if err := SaveFigure(nil, Options{Path: filepath.Join(dir, "x.svg")}); err == nil {
		t.Error("nil figure accepted")
	}
	if err := SaveFigure(sampleBar(), Options{}); err == nil {
		t.Error("empty path accepted")
	}
}

func TestRender_EveryTraceType(t *testing.T) {
	choro := chart.NewChoropleth([]string{"FRA", "TCD"}, []float64{1, 2})
	choro.ZMax = 2
	sun := chart.NewSunburst(
		[]string{"WDI", "A", "B"}, []string{"WDI", "Economy", "Environment"},
		[]string{"", "WDI", "WDI"}, []float64{100, 60, 40},
	)
	figs := map[string]*chart.Figure{
		"map":        {Data: []chart.Trace{choro}},
		"sunburst":   {Data: []chart.Trace{sun}},
		"trajectory": sampleTrajectory(),
		"empty":      {},
	}
	for name, fig := range figs {
		for _, format := range []Format{FormatSVG, FormatPNG} {
			var buf bytes.Buffer
			if err := Render(&buf, fig, format, Options{}); err != nil {
				t.Errorf("%s/%s: %v", name, format, err)
			}
			if buf.Len() == 0 {
				t.Errorf("%s/%s: empty output", name, format)
			}
		}
	}

	var buf bytes.Buffer
	if err := Render(&buf, &chart.Figure{}, FormatSVG, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No data") {
		t.Error("empty figure should say so")
	}
}

func TestExportSet_WritesFrames(t *testing.T) {
	dir := t.TempDir()
	written, err := ExportSet(dir, FormatSVG, []Named{
		{Name: "graph-bar", Figure: sampleBar()},
		{Name: "trajectory", Title: "Trajectory", Figure: sampleTrajectory()},
		{Name: "skipped"},
	})
	if err != nil {
		t.Fatalf("ExportSet: %v", err)
	}
	want := []string{
		filepath.Join(dir, "graph-bar.svg"),
		filepath.Join(dir, "trajectory.svg"),
		filepath.Join(dir, "trajectory", "2000.svg"),
		filepath.Join(dir, "trajectory", "2001.svg"),
	}
	if len(written) != len(want) {
		t.Fatalf("written %v", written)
	}
	for i := range want {
		if written[i] != want[i] {
			t.Errorf("written[%d]=%s; want %s", i, written[i], want[i])
		}
	}

	jsonOnly, err := ExportSet(t.TempDir(), FormatJSON, []Named{{Name: "trajectory", Figure: sampleTrajectory()}})
	if err != nil || len(jsonOnly) != 1 {
		t.Fatalf("json export wrote %v, %v", jsonOnly, err)
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]string{
		"#0055A4":       "#0055a4",
		"#abc":          "#aabbcc",
		"rgb(1, 2, 3)":  "#010203",
		"rgba(0,0,0,0)": "#000000",
		"not-a-color":   "#9e9e9e",
		"rgb(300,0,0)":  "#9e9e9e",
	}
	for in, want := range tests {
		if got := css(parseColor(in)); got != want {
			t.Errorf("parseColor(%q)=%s; want %s", in, got, want)
		}
	}
	if parseColor("rgba(0,0,0,0)").A != 0 {
		t.Error("alpha ignored")
	}
}

func TestScaleColor_Endpoints(t *testing.T) {
	if got := css(scaleColor(0, 0, 10)); got != "#fdedb0" {
		t.Errorf("low end %s", got)
	}
	if got := css(scaleColor(10, 0, 10)); got != "#2f0f3d" {
		t.Errorf("high end %s", got)
	}
	if got := css(scaleColor(5, 5, 5)); got != "#fdedb0" {
		t.Errorf("degenerate scale %s", got)
	}
}
