package dashboard

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/loader"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
	"github.com/vanderheijden86/wdiview/pkg/testutil"
)

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d, err := New(testutil.NewDefault().Data(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNew_DefaultsAndStatics(t *testing.T) {
	d := newTestDashboard(t)

	s := d.Defaults()
	if s.Indicator != BirthRateIndicator || s.XIndicator != FertilityIndicator || s.YIndicator != LifeExpectancyIndicator {
		t.Errorf("defaults %+v", s)
	}
	if s.Year != 1960 || s.ScatterYear != 2010 || s.YearRange != (YearRange{1960, 2020}) {
		t.Errorf("years %+v", s)
	}
	if d.Static(SunburstChart) == nil || d.Static(TrajectoryPlot) == nil {
		t.Fatal("static figures missing")
	}
	if d.Static(GraphMap) != nil {
		t.Fatal("reactive output reported as static")
	}
	if len(d.Static(TrajectoryPlot).Frames) != 11 {
		t.Errorf("trajectory frames=%d; want 2000..2010", len(d.Static(TrajectoryPlot).Frames))
	}
}

func TestNew_MissingDefaultIndicatorFallsBackToFirst(t *testing.T) {
	data := &loader.Data{Table: table.New([]model.Observation{
		{CountryName: "France", CountryCode: "FRA", Indicator: "Zeta", Year: 2000, Value: model.Present(1)},
		{CountryName: "France", CountryCode: "FRA", Indicator: "Alpha", Year: 2000, Value: model.Present(2)},
	})}
	d, err := New(data, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Defaults().Indicator; got != "Alpha" {
		t.Fatalf("Indicator=%q; want Alpha", got)
	}
}

func TestNew_RejectsMissingTable(t *testing.T) {
	if _, err := New(&loader.Data{}, Options{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := New(testutil.NewDefault().Data(), Options{MinYear: 2000, MaxYear: 1990}); err == nil {
		t.Fatal("expected error for inverted year range")
	}
}

func TestControls(t *testing.T) {
	d := newTestDashboard(t)
	controls := d.Controls()
	if len(controls) != len(ControlIDs()) {
		t.Fatalf("got %d controls", len(controls))
	}
	slider := controls[1]
	if slider.ID != YearSlider || slider.Kind != KindSlider || slider.Min != 1960 || slider.Max != 2020 {
		t.Fatalf("slider %+v", slider)
	}
	if len(slider.Marks) != 7 || slider.Marks[0].Label != "Year1960" || slider.Marks[6].Value != 2020 {
		t.Fatalf("marks %+v", slider.Marks)
	}
	if len(controls[2].Options) != 61 {
		t.Fatalf("year dropdown has %d options", len(controls[2].Options))
	}
}

func TestRegistry_Validation(t *testing.T) {
	noop := func(ControlState) map[OutputID]*chart.Figure { return nil }
	if _, err := NewRegistry(Binding{Name: "a", Outputs: []OutputID{GraphMap}, Compute: noop}); err == nil {
		t.Error("binding without triggers accepted")
	}
	_, err := NewRegistry(
		Binding{Name: "a", Triggers: []ControlID{YearSlider}, Outputs: []OutputID{GraphMap}, Compute: noop},
		Binding{Name: "b", Triggers: []ControlID{YearSlider}, Outputs: []OutputID{GraphMap}, Compute: noop},
	)
	if err == nil {
		t.Error("two bindings for one output accepted")
	}
}

func TestRegistry_Triggered(t *testing.T) {
	r := newTestDashboard(t).Registry()
	tests := []struct {
		control ControlID
		want    string
	}{
		{YearSlider, "geo-value"},
		{IndicatorSelector, "geo-value"},
		{XAxisColumn, "bivariate"},
		{YAxisColumn, "bivariate"},
		{IndicatorYear, "bivariate"},
	}
	for _, tt := range tests {
		got := r.Triggered(tt.control)
		if len(got) != 1 || got[0].Name != tt.want {
			t.Errorf("Triggered(%s)=%v; want %s", tt.control, got, tt.want)
		}
	}
	if owner, _ := r.Owner(GraphBar); owner != "geo-value" {
		t.Errorf("Owner(graph-bar)=%q", owner)
	}
}

func TestSession_ApplyRecomputesOnlyTriggeredOutputs(t *testing.T) {
	s := newTestDashboard(t).NewSession()

	u, err := s.Apply(SetYear(YearSlider, 2005))
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Figures) != 2 || u.Figures[GraphMap] == nil || u.Figures[GraphBar] == nil {
		t.Fatalf("year change produced %v", keys(u.Figures))
	}
	if u.State.Year != 2005 || s.State().Year != 2005 {
		t.Fatalf("state not updated: %+v", u.State)
	}
	if u.Figures[GraphMap].IsEmpty() {
		t.Fatal("map for 2005 should have data")
	}

	u, err = s.Apply(Change{Control: XAxisColumn, Value: GDPPerCapitaIndicator})
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Figures) != 1 || u.Figures[ScatterGraphic] == nil {
		t.Fatalf("x change produced %v", keys(u.Figures))
	}
}

func TestSession_InvalidChangesLeaveStateUntouched(t *testing.T) {
	metrics.ResetAll()
	s := newTestDashboard(t).NewSession()
	before := s.State()

	tests := []struct {
		change Change
		want   error
	}{
		{Change{Control: "colour-picker", Value: "red"}, ErrUnknownControl},
		{Change{Control: YearSlider, Value: "soon"}, ErrInvalidValue},
		{SetYear(YearSlider, 1959), ErrInvalidValue},
		{SetYear(IndicatorYear, 2021), ErrInvalidValue},
	}
	for _, tt := range tests {
		if _, err := s.Apply(tt.change); !errors.Is(err, tt.want) {
			t.Errorf("Apply(%+v) err=%v; want %v", tt.change, err, tt.want)
		}
	}
	if s.State() != before {
		t.Fatalf("state changed: %+v", s.State())
	}
	if metrics.Enabled() && metrics.ControlErrors.Value() != int64(len(tests)) {
		t.Errorf("ControlErrors=%d", metrics.ControlErrors.Value())
	}
}

func TestSession_UnknownIndicatorRendersEmpty(t *testing.T) {
	s := newTestDashboard(t).NewSession()
	u, err := s.Apply(Change{Control: IndicatorSelector, Value: "Not an indicator"})
	if err != nil {
		t.Fatalf("unknown indicator should not be an error: %v", err)
	}
	if !u.Figures[GraphMap].IsEmpty() || !u.Figures[GraphBar].IsEmpty() {
		t.Fatal("expected empty charts")
	}
}

func TestSession_Isolation(t *testing.T) {
	d := newTestDashboard(t)
	a, b := d.NewSession(), d.NewSession()

	if _, err := a.Apply(SetYear(YearSlider, 2000)); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Apply(Change{Control: IndicatorSelector, Value: GDPPerCapitaIndicator}); err != nil {
		t.Fatal(err)
	}
	if b.State() != d.Defaults() {
		t.Fatalf("session b affected by a: %+v", b.State())
	}
	if d.Defaults().Year != 1960 {
		t.Fatal("dashboard defaults mutated")
	}
}

func TestSession_RenderCoversEveryOutput(t *testing.T) {
	figs := newTestDashboard(t).NewSession().Render()
	for _, id := range OutputIDs() {
		if figs[id] == nil {
			t.Errorf("output %s not rendered", id)
		}
	}
}

func TestControlState_Value(t *testing.T) {
	s := ControlState{Indicator: "A", Year: 1999, ScatterYear: 2001, XIndicator: "X", YIndicator: "Y"}
	for id, want := range map[ControlID]string{
		IndicatorSelector: "A", YearSlider: "1999", IndicatorYear: "2001", XAxisColumn: "X", YAxisColumn: "Y",
	} {
		if got, err := s.Value(id); err != nil || got != want {
			t.Errorf("Value(%s)=%q,%v; want %q", id, got, err, want)
		}
	}
	if _, err := s.Value("nope"); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("err=%v", err)
	}
}

func TestHeadline_Boxes(t *testing.T) {
	h := newTestDashboard(t).Headline()
	boxes := h.Boxes()
	want := []string{"20 COUNTRIES", "4 INDICATORS", "FROM 1995 TIL NOW", "12 TOPICS COVERED"}
	for i := range want {
		if boxes[i] != want[i] {
			t.Errorf("box %d = %q; want %q", i, boxes[i], want[i])
		}
	}
	if h.Dimensions != 3 {
		t.Errorf("Dimensions=%d", h.Dimensions)
	}
}

func keys(m map[OutputID]*chart.Figure) []OutputID {
	out := make([]OutputID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
