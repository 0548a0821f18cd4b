package ui

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/wdiview/pkg/dashboard"
)

type formKind int

const (
	formNone formKind = iota
	formIndicator
	formScatter
)

// formValues is shared by pointer between the huh fields and the model, so it
// survives the model being copied on every update.
type formValues struct {
	Indicator string
	X         string
	Y         string
	Year      string
}

const formHeight = 12

func newForm(width int, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(true)
	if width > 0 {
		form = form.WithWidth(width)
	}
	return form
}

// newIndicatorForm asks for the indicator shown on the map and bar chart.
func newIndicatorForm(indicators []string, vals *formValues, width int) *huh.Form {
	return newForm(width,
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose one WDI indicator").
				Options(huh.NewOptions(indicators...)...).
				Filtering(true).
				Height(formHeight).
				Value(&vals.Indicator),
		),
	)
}

// newScatterForm asks for the two scatter indicators and the year.
func newScatterForm(indicators, years []string, vals *formValues, width int) *huh.Form {
	return newForm(width,
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Indicator X").
				Options(huh.NewOptions(indicators...)...).
				Filtering(true).
				Height(formHeight).
				Value(&vals.X),
			huh.NewSelect[string]().
				Title("Indicator Y").
				Options(huh.NewOptions(indicators...)...).
				Filtering(true).
				Height(formHeight).
				Value(&vals.Y),
			huh.NewSelect[string]().
				Title("Year").
				Options(huh.NewOptions(years...)...).
				Height(formHeight).
				Value(&vals.Year),
		),
	)
}

// changes lists the control edits a completed form implies, skipping values
// equal to the current state.
func (v formValues) changes(kind formKind, s dashboard.ControlState) []dashboard.Change {
	var out []dashboard.Change
	add := func(id dashboard.ControlID, val, cur string) {
		if val != "" && val != cur {
			out = append(out, dashboard.Change{Control: id, Value: val})
		}
	}
	switch kind {
	case formIndicator:
		add(dashboard.IndicatorSelector, v.Indicator, s.Indicator)
	case formScatter:
		add(dashboard.XAxisColumn, v.X, s.XIndicator)
		add(dashboard.YAxisColumn, v.Y, s.YIndicator)
		add(dashboard.IndicatorYear, v.Year, strconv.Itoa(s.ScatterYear))
	}
	return out
}
