// Package ui is the terminal shell of the dashboard: one Bubble Tea program
// driving one dashboard session.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/export"
)

// Tab is one page of the shell.
type Tab int

const (
	TabGeo Tab = iota
	TabScatter
	TabTaxonomy
	TabTrajectory
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabGeo:
		return "Geo"
	case TabScatter:
		return "Scatter"
	case TabTaxonomy:
		return "Taxonomy"
	case TabTrajectory:
		return "Trajectory"
	}
	return "?"
}

// ParseTab maps a config tab name to a Tab, defaulting to TabGeo.
func ParseTab(name string) Tab {
	for t := TabGeo; t < tabCount; t++ {
		if strings.EqualFold(t.String(), name) {
			return t
		}
	}
	return TabGeo
}

// outputs returns the figures shown on a tab; the first is the one copied.
func (t Tab) outputs() []dashboard.OutputID {
	switch t {
	case TabGeo:
		return []dashboard.OutputID{dashboard.GraphMap, dashboard.GraphBar}
	case TabScatter:
		return []dashboard.OutputID{dashboard.ScatterGraphic}
	case TabTaxonomy:
		return []dashboard.OutputID{dashboard.SunburstChart}
	case TabTrajectory:
		return []dashboard.OutputID{dashboard.TrajectoryPlot}
	}
	return nil
}

// frameInterval is how long each trajectory frame shows while playing.
const frameInterval = 300 * time.Millisecond

// frameTickMsg advances the trajectory animation. gen ties a tick to the play
// run that scheduled it so a pause followed by play never doubles the rate.
type frameTickMsg struct{ gen int }

func frameTickCmd(gen int) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameTickMsg{gen: gen}
	})
}

// exportedMsg reports the result of an export started with 'e'.
type exportedMsg struct {
	paths []string
	err   error
}

// Options configures the shell.
type Options struct {
	Theme     string // auto, dark or light
	Tab       string // initial tab
	ExportDir string // where 'e' writes figures; defaults to the working directory
}

// Model is the Bubble Tea model of the shell.
type Model struct {
	dash    *dashboard.Dashboard
	session *dashboard.Session
	theme   Theme
	opts    Options

	figures map[dashboard.OutputID]*chart.Figure
	tab     Tab

	width, height int
	ready         bool

	status    string
	statusErr bool

	showHelp bool
	help     viewport.Model

	form     *huh.Form
	formKind formKind
	formVals *formValues

	frame   int
	playing bool
	playGen int

	scroll int // taxonomy scroll offset

	copyText func(string) error
}

// NewModel starts a session on d and renders every output once.
func NewModel(d *dashboard.Dashboard, opts Options) Model {
	r := lipgloss.DefaultRenderer()
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	s := d.NewSession()
	return Model{
		dash:     d,
		session:  s,
		theme:    NewTheme(opts.Theme, r),
		opts:     opts,
		figures:  s.Render(),
		tab:      ParseTab(opts.Tab),
		copyText: clipboard.WriteAll,
	}
}

// State returns the session's control values.
func (m Model) State() dashboard.ControlState { return m.session.State() }

// CurrentTab returns the tab on screen.
func (m Model) CurrentTab() Tab { return m.tab }

// Figure returns the latest figure for an output.
func (m Model) Figure(id dashboard.OutputID) *chart.Figure { return m.figures[id] }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// huh needs every message type, not only keys, to move between fields.
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		if m.showHelp {
			m.openHelp()
		}
		return m, nil

	case frameTickMsg:
		if !m.playing || msg.gen != m.playGen {
			return m, nil
		}
		if m.frame >= m.frameCount()-1 {
			m.playing = false
			return m, nil
		}
		m.frame++
		return m, frameTickCmd(m.playGen)

	case exportedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("Exported %d file(s) to %s", len(msg.paths), m.opts.ExportDir))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	case huh.StateCompleted:
		changes := m.formVals.changes(m.formKind, m.session.State())
		m.closeForm()
		if len(changes) == 0 {
			m.setStatus("No change")
			return m, nil
		}
		for _, c := range changes {
			if !m.apply(c) {
				break
			}
		}
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
	m.formVals = nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.showHelp {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		m.showHelp = false
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		m.openHelp()
		return m, nil
	case "tab":
		m.switchTab((m.tab + 1) % tabCount)
		return m, nil
	case "shift+tab":
		m.switchTab((m.tab + tabCount - 1) % tabCount)
		return m, nil
	case "1", "2", "3", "4":
		m.switchTab(Tab(key[0] - '1'))
		return m, nil
	case "y":
		m.copyFigure()
		return m, nil
	case "e":
		return m, m.exportCmd()
	case "f":
		m.switchTab(TabScatter)
		return m.openForm(formScatter)
	}

	switch m.tab {
	case TabGeo:
		switch key {
		case "i":
			return m.openForm(formIndicator)
		case "left", "h":
			m.stepYear(dashboard.YearSlider, -1)
		case "right", "l":
			m.stepYear(dashboard.YearSlider, 1)
		case "[":
			m.stepYear(dashboard.YearSlider, -m.dash.Options().MarkStep)
		case "]":
			m.stepYear(dashboard.YearSlider, m.dash.Options().MarkStep)
		}
	case TabScatter:
		switch key {
		case "left", "h":
			m.stepYear(dashboard.IndicatorYear, -1)
		case "right", "l":
			m.stepYear(dashboard.IndicatorYear, 1)
		}
	case TabTaxonomy:
		switch key {
		case "up", "k":
			m.scroll = max(m.scroll-1, 0)
		case "down", "j":
			m.scroll = min(m.scroll+1, max(len(m.taxonomyLines())-1, 0))
		case "home", "g":
			m.scroll = 0
		}
	case TabTrajectory:
		switch key {
		case " ", "space":
			return m.togglePlay()
		case "left", "h":
			m.playing = false
			m.frame = clampInt(m.frame-1, 0, max(m.frameCount()-1, 0))
		case "right", "l":
			m.playing = false
			m.frame = clampInt(m.frame+1, 0, max(m.frameCount()-1, 0))
		}
	}
	return m, nil
}

// openHelp sizes the help pane to the window and loads the rendered keys.
func (m *Model) openHelp() {
	m.help = viewport.New(m.contentWidth(), max(m.height-2, 10))
	m.help.SetContent(renderHelp(m.theme, m.contentWidth()))
}

func (m *Model) switchTab(t Tab) {
	if t == m.tab {
		return
	}
	m.tab = t
	m.playing = false
	m.status = ""
	m.statusErr = false
}

func (m Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	s := m.session.State()
	vals := &formValues{
		Indicator: s.Indicator,
		X:         s.XIndicator,
		Y:         s.YIndicator,
		Year:      strconv.Itoa(s.ScatterYear),
	}
	indicators := m.dash.Table().Indicators()
	if len(indicators) == 0 {
		m.setError("No indicators loaded")
		return m, nil
	}

	width := min(m.contentWidth(), 80)
	switch kind {
	case formIndicator:
		m.form = newIndicatorForm(indicators, vals, width)
	case formScatter:
		var years []string
		for _, c := range m.dash.Controls() {
			if c.ID == dashboard.IndicatorYear {
				years = c.Options
			}
		}
		m.form = newScatterForm(indicators, years, vals, width)
	default:
		return m, nil
	}
	m.formKind = kind
	m.formVals = vals
	return m, m.form.Init()
}

// apply sends one change through the session and merges the recomputed
// figures. It reports whether the change was accepted.
func (m *Model) apply(c dashboard.Change) bool {
	upd, err := m.session.Apply(c)
	if err != nil {
		m.setError(err.Error())
		return false
	}
	for id, f := range upd.Figures {
		m.figures[id] = f
	}
	m.setStatus(fmt.Sprintf("%s → %s", c.Control, c.Value))
	return true
}

func (m *Model) stepYear(id dashboard.ControlID, delta int) {
	s := m.session.State()
	year := s.Year
	if id == dashboard.IndicatorYear {
		year = s.ScatterYear
	}
	next := clampInt(year+delta, s.YearRange.Min, s.YearRange.Max)
	if next == year {
		m.setStatus(fmt.Sprintf("Already at %d", year))
		return
	}
	m.apply(dashboard.SetYear(id, next))
}

func (m Model) togglePlay() (tea.Model, tea.Cmd) {
	if m.frameCount() == 0 {
		m.setError("No trajectory frames")
		return m, nil
	}
	if m.playing {
		m.playing = false
		return m, nil
	}
	if m.frame >= m.frameCount()-1 {
		m.frame = 0
	}
	m.playing = true
	m.playGen++
	return m, frameTickCmd(m.playGen)
}

func (m Model) frameCount() int {
	if f := m.figures[dashboard.TrajectoryPlot]; f != nil {
		return len(f.Frames)
	}
	return 0
}

// Frame returns the index of the trajectory frame on screen.
func (m Model) Frame() int { return m.frame }

// Playing reports whether the trajectory animation is running.
func (m Model) Playing() bool { return m.playing }

func (m *Model) copyFigure() {
	id := m.tab.outputs()[0]
	fig := m.figures[id]
	if fig == nil {
		m.setError("Nothing to copy")
		return
	}
	raw, err := chart.EncodeIndent(fig)
	if err != nil {
		m.setError(fmt.Sprintf("encode %s: %v", id, err))
		return
	}
	if err := m.copyText(string(raw)); err != nil {
		m.setError(fmt.Sprintf("clipboard: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", id))
}

func (m Model) exportCmd() tea.Cmd {
	var figs []export.Named
	for _, id := range m.tab.outputs() {
		figs = append(figs, export.Named{Name: string(id), Figure: m.figures[id]})
	}
	dir := m.opts.ExportDir
	return func() tea.Msg {
		paths, err := export.ExportSet(dir, export.FormatSVG, figs)
		debug.Log("ui: exported %d file(s) to %s", len(paths), dir)
		return exportedMsg{paths: paths, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 100
	}
	return max(m.width-4, MinWidth)
}

// bodyHeight is the rows left for the tab body under the header, tab bar
// and footer.
func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 30
	}
	return max(m.height-9, 5)
}
