package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/testutil"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	d, err := dashboard.New(testutil.NewDefault().Data(), dashboard.Options{DefaultYear: 2000})
	if err != nil {
		t.Fatalf("dashboard.New: %v", err)
	}
	m := NewModel(d, opts)
	m.theme = TestTheme()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func TestTabSwitching(t *testing.T) {
	m := newTestModel(t, Options{})
	if m.CurrentTab() != TabGeo {
		t.Fatalf("start tab %v", m.CurrentTab())
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentTab() != TabScatter {
		t.Fatalf("tab: got %v", m.CurrentTab())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.CurrentTab() != TabTrajectory {
		t.Fatalf("shift+tab should wrap, got %v", m.CurrentTab())
	}
	m, _ = send(t, m, key("3"))
	if m.CurrentTab() != TabTaxonomy {
		t.Fatalf("3: got %v", m.CurrentTab())
	}

	if m := newTestModel(t, Options{Tab: "trajectory"}); m.CurrentTab() != TabTrajectory {
		t.Fatalf("initial tab option ignored: %v", m.CurrentTab())
	}
}

func TestGeoYearKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	before := m.Figure(dashboard.GraphMap)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.State().Year; got != 2001 {
		t.Fatalf("right: year %d", got)
	}
	if m.Figure(dashboard.GraphMap) == before {
		t.Fatal("map not recomputed")
	}

	m, _ = send(t, m, key("["))
	if got := m.State().Year; got != 1991 {
		t.Fatalf("[: year %d", got)
	}

	m, _ = send(t, m, key("]"), key("]"), key("]"), key("]"), key("]"))
	if got := m.State().Year; got != 2020 {
		t.Fatalf("] should clamp to the last year, got %d", got)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if status, isErr := m.Status(); m.State().Year != 2020 || isErr || !strings.Contains(status, "Already at 2020") {
		t.Fatalf("right at the end: year %d status %q err %v", m.State().Year, status, isErr)
	}
}

func TestScatterYearKeysLeaveGeoAlone(t *testing.T) {
	m := newTestModel(t, Options{})
	geo := m.Figure(dashboard.GraphMap)

	m, _ = send(t, m, key("2"), tea.KeyMsg{Type: tea.KeyLeft})
	s := m.State()
	if s.ScatterYear != 2009 || s.Year != 2000 {
		t.Fatalf("state %+v", s)
	}
	if m.Figure(dashboard.GraphMap) != geo {
		t.Fatal("scatter change recomputed the map")
	}
}

func TestIndicatorFormOpensAndCancels(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := send(t, m, key("i"))
	if m.form == nil || m.formKind != formIndicator {
		t.Fatal("i should open the indicator form")
	}
	_ = cmd
	if !strings.Contains(m.View(), "Choose one WDI indicator") {
		t.Error("form not drawn")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Fatal("esc should close the form")
	}
	if status, _ := m.Status(); status != "Cancelled" {
		t.Errorf("status %q", status)
	}
}

func TestScatterFormSwitchesTab(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(t, m, key("f"))
	if m.CurrentTab() != TabScatter || m.formKind != formScatter {
		t.Fatalf("tab %v form %v", m.CurrentTab(), m.formKind)
	}
}

func TestFormValuesChanges(t *testing.T) {
	s := dashboard.ControlState{Indicator: "A", XIndicator: "A", YIndicator: "B", ScatterYear: 2010}

	if got := (formValues{Indicator: "A"}).changes(formIndicator, s); len(got) != 0 {
		t.Errorf("unchanged indicator produced %v", got)
	}
	got := formValues{Indicator: "A", X: "C", Y: "B", Year: "2005"}.changes(formScatter, s)
	want := []dashboard.Change{
		{Control: dashboard.XAxisColumn, Value: "C"},
		{Control: dashboard.IndicatorYear, Value: "2005"},
	}
	if len(got) != len(want) {
		t.Fatalf("changes %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("changes[%d]=%v; want %v", i, got[i], want[i])
		}
	}
}

func TestTrajectoryPlayback(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(t, m, key("4"))
	frames := m.frameCount()
	if frames < 2 {
		t.Fatalf("need frames, got %d", frames)
	}

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Playing() || cmd == nil {
		t.Fatal("space should start playback")
	}
	gen := m.playGen

	m, _ = send(t, m, frameTickMsg{gen: gen})
	if m.Frame() != 1 {
		t.Fatalf("tick: frame %d", m.Frame())
	}
	m, _ = send(t, m, frameTickMsg{gen: gen - 1})
	if m.Frame() != 1 {
		t.Fatal("stale tick advanced the animation")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Playing() {
		t.Fatal("space should pause")
	}
	m, _ = send(t, m, frameTickMsg{gen: gen})
	if m.Frame() != 1 {
		t.Fatal("paused animation advanced")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Frame() != 0 {
		t.Fatalf("left should clamp at 0, frame %d", m.Frame())
	}

	// Playback stops on the last frame.
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i < frames+2; i++ {
		m, _ = send(t, m, frameTickMsg{gen: m.playGen})
	}
	if m.Playing() || m.Frame() != frames-1 {
		t.Fatalf("playing=%v frame=%d of %d", m.Playing(), m.Frame(), frames)
	}
	if !strings.Contains(m.View(), "2010") {
		t.Error("last frame year not shown")
	}
}

func TestCopyFigure(t *testing.T) {
	m := newTestModel(t, Options{})
	var copied string
	m.copyText = func(s string) error { copied = s; return nil }

	m, _ = send(t, m, key("y"))
	if !strings.Contains(copied, `"choropleth"`) {
		t.Fatalf("copied %q", copied)
	}
	if status, isErr := m.Status(); isErr || !strings.Contains(status, "graph-map") {
		t.Errorf("status %q", status)
	}

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m, _ = send(t, m, key("3"), key("y"))
	if status, isErr := m.Status(); !isErr || !strings.Contains(status, "no clipboard") {
		t.Errorf("status %q err %v", status, isErr)
	}
}

func TestExportWritesFigures(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, Options{ExportDir: dir})

	m, cmd := send(t, m, key("e"))
	if cmd == nil {
		t.Fatal("e should return an export command")
	}
	m, _ = send(t, m, cmd())

	for _, name := range []string{"graph-map.svg", "graph-bar.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if status, isErr := m.Status(); isErr || !strings.Contains(status, "Exported 2 file(s)") {
		t.Errorf("status %q", status)
	}
}

func TestViewPerTab(t *testing.T) {
	m := newTestModel(t, Options{})
	view := m.View()
	for _, want := range []string{"20 COUNTRIES", "FROM 1995 TIL NOW", "Geo", "Trajectory", "Top 15", "Year: 2000", "Spread: median"} {
		if !strings.Contains(view, want) {
			t.Errorf("geo view missing %q", want)
		}
	}

	m, _ = send(t, m, key("2"))
	if view := m.View(); !strings.Contains(view, "Points:") || !strings.Contains(view, "Year: 2010") {
		t.Errorf("scatter view:\n%s", view)
	}

	m, _ = send(t, m, key("3"))
	if view := m.View(); !strings.Contains(view, "WDI") || !strings.Contains(view, "dimensions") {
		t.Errorf("taxonomy view:\n%s", view)
	}

	m, _ = send(t, m, key("4"))
	if view := m.View(); !strings.Contains(view, "paused") || !strings.Contains(view, "Year: 2000") {
		t.Errorf("trajectory view:\n%s", view)
	}
}

func TestEmptyGeoView(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(t, m, key("["), key("["), key("["), key("["))
	if !strings.Contains(m.View(), "No data for this indicator and year") {
		t.Errorf("year %d should have no data", m.State().Year)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m := newTestModel(t, Options{Theme: "dark"})
	m, _ = send(t, m, key("?"))
	if !m.showHelp || m.View() == "" {
		t.Fatal("? should show help")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !m.showHelp {
		t.Fatal("down should scroll help, not close it")
	}
	m, cmd := send(t, m, key("x"))
	if m.showHelp || cmd != nil {
		t.Fatal("any key should dismiss help without side effects")
	}

	_, cmd = send(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}
