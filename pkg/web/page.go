package web

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/vanderheijden86/wdiview/pkg/dashboard"
)

//go:embed templates/index.html
var templatesFS embed.FS

// PlotlyURL is the script the page loads to draw figures.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// pageData feeds templates/index.html.
type pageData struct {
	Title     string
	PlotlyURL string
	Boxes     []string
	Taxonomy  string
	State     dashboard.ControlState
	Indicator dashboard.Control
	Year      dashboard.Control
	ScatterYr dashboard.Control
	X         dashboard.Control
	Y         dashboard.Control
}

func parsePage() (*template.Template, error) {
	t, err := template.New("index.html").
		Funcs(template.FuncMap{"itoa": strconv.Itoa}).
		ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return t, nil
}

func newPageData(d *dashboard.Dashboard) pageData {
	h := d.Headline()
	p := pageData{
		Title:     "World Development Indicator",
		PlotlyURL: PlotlyURL,
		Boxes:     h.Boxes(),
		Taxonomy:  fmt.Sprintf("WDI consists of %d dimensions, Covers %d topics", h.Dimensions, h.Topics),
		State:     d.Defaults(),
	}
	for _, c := range d.Controls() {
		switch c.ID {
		case dashboard.IndicatorSelector:
			p.Indicator = c
		case dashboard.YearSlider:
			p.Year = c
		case dashboard.IndicatorYear:
			p.ScatterYr = c
		case dashboard.XAxisColumn:
			p.X = c
		case dashboard.YAxisColumn:
			p.Y = c
		}
	}
	return p
}
