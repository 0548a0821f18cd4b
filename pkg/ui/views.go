package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
)

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !m.ready {
		return "Loading…"
	}
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.help.View(),
			m.theme.MutedText.Render(fmt.Sprintf("↑/↓ scroll • %3.f%% • any other key closes", m.help.ScrollPercent()*100)),
		)
	}

	var body string
	if m.form != nil {
		body = m.theme.Panel.Render(m.form.View())
	} else {
		switch m.tab {
		case TabGeo:
			body = m.renderGeo()
		case TabScatter:
			body = m.renderScatter()
		case TabTaxonomy:
			body = m.renderTaxonomy()
		case TabTrajectory:
			body = m.renderTrajectory()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Header.Render("World Development Indicators")
	var boxes []string
	for _, b := range m.dash.Headline().Boxes() {
		boxes = append(boxes, t.Box.Render(b))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

func (m Model) renderTabs() string {
	var parts []string
	for tab := TabGeo; tab < tabCount; tab++ {
		label := strconv.Itoa(int(tab)+1) + " " + tab.String()
		if tab == m.tab {
			parts = append(parts, m.theme.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.theme.Tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	if m.status != "" {
		if m.statusErr {
			return m.theme.Error.Render(m.status)
		}
		return m.theme.Status.Render(m.status)
	}
	var hints string
	switch m.tab {
	case TabGeo:
		hints = "i indicator • ←/→ year • [/] decade"
	case TabScatter:
		hints = "f choose axes • ←/→ year"
	case TabTaxonomy:
		hints = "↑/↓ scroll"
	case TabTrajectory:
		hints = "space play/pause • ←/→ frame"
	}
	return m.theme.MutedText.Render(hints + " • y copy • e export • ? help • q quit")
}

// slider draws the year track with the thumb at year.
func (m Model) slider(year, first, last int) string {
	width := clampInt(m.contentWidth()-14, 10, 60)
	pos := 0
	if last > first {
		pos = (year - first) * (width - 1) / (last - first)
	}
	track := strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-pos-1)
	return fmt.Sprintf("%d %s %d", first, m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Render(track), last)
}

func (m Model) renderGeo() string {
	t := m.theme
	s := m.session.State()

	var b strings.Builder
	b.WriteString(t.Label.Render("Indicator: ") + s.Indicator + "\n")
	b.WriteString(t.Label.Render("Year: ") + strconv.Itoa(s.Year) + "  " + m.slider(s.Year, s.YearRange.Min, s.YearRange.Max) + "\n\n")

	choro := firstTrace[*chart.Choropleth](m.figures[dashboard.GraphMap])
	bars := firstTrace[*chart.Bar](m.figures[dashboard.GraphBar])
	if choro == nil || choro.Len() == 0 {
		b.WriteString(t.MutedText.Render("No data for this indicator and year."))
		return t.Panel.Render(b.String())
	}

	b.WriteString(fmt.Sprintf("%s %d countries on the map, max %s\n",
		t.Label.Render("Map:"), choro.Len(), formatValue(choro.ZMax)))
	st := m.dash.Table().Indicator(s.Indicator).Year(s.Year).Stats()
	b.WriteString(fmt.Sprintf("%s median %s, mean %s, min %s\n\n",
		t.Label.Render("Spread:"), formatValue(st.Median), formatValue(st.Mean), formatValue(st.Min)))

	if bars != nil {
		b.WriteString(t.Label.Render(fmt.Sprintf("Top %d", bars.Len())) + "\n")
		top := 0.0
		for _, v := range bars.Y {
			top = max(top, v)
		}
		width := clampInt(m.contentWidth()-LabelWidth-14, 8, MaxBarWidth)
		for i, name := range bars.X {
			color := ""
			if i < len(bars.Marker.Colors) {
				color = bars.Marker.Colors[i]
			}
			b.WriteString(fmt.Sprintf("%s %s %s %s\n",
				t.Swatch(color),
				padRight(name, LabelWidth),
				padRight(bar(bars.Y[i], top, width), width),
				formatValue(bars.Y[i])))
		}
	}
	return t.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderScatter() string {
	t := m.theme
	s := m.session.State()

	var b strings.Builder
	b.WriteString(t.Label.Render("X: ") + s.XIndicator + "\n")
	b.WriteString(t.Label.Render("Y: ") + s.YIndicator + "\n")
	b.WriteString(t.Label.Render("Year: ") + strconv.Itoa(s.ScatterYear) + "\n\n")

	fig := m.figures[dashboard.ScatterGraphic]
	if fig.IsEmpty() {
		b.WriteString(t.MutedText.Render("No country has both values for this year."))
		return t.Panel.Render(b.String())
	}

	var xs, ys []float64
	for _, tr := range fig.Data {
		if sc, ok := tr.(*chart.Scatter); ok && sc.Len() > 0 {
			xs = append(xs, sc.X[0])
			ys = append(ys, sc.Y[0])
		}
	}
	if len(xs) > 1 {
		b.WriteString(fmt.Sprintf("%s %d countries, r = %.2f\n\n",
			t.Label.Render("Points:"), len(xs), stat.Correlation(xs, ys, nil)))
	} else {
		b.WriteString(fmt.Sprintf("%s %d country\n\n", t.Label.Render("Points:"), len(xs)))
	}

	col := 14
	b.WriteString(t.MutedText.Render(fmt.Sprintf("  %s %s %s",
		padRight("Country", LabelWidth), padRight("X", col), padRight("Y", col))) + "\n")
	shown := 0
	for _, tr := range fig.Data {
		sc, ok := tr.(*chart.Scatter)
		if !ok || sc.Len() == 0 {
			continue
		}
		if shown == MaxScatterRows {
			b.WriteString(t.MutedText.Render(fmt.Sprintf("  … %d more", len(fig.Data)-shown)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			t.Swatch(sc.Marker.Color),
			padRight(sc.Name, LabelWidth),
			padRight(formatValue(sc.X[0]), col),
			padRight(formatValue(sc.Y[0]), col)))
		shown++
	}
	return t.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// taxonomyLines flattens the sunburst into an indented tree, children in
// file order under their parent.
func (m Model) taxonomyLines() []string {
	sun := firstTrace[*chart.Sunburst](m.figures[dashboard.SunburstChart])
	if sun == nil {
		return nil
	}
	children := make(map[string][]int)
	var roots []int
	for i, p := range sun.Parents {
		if p == "" {
			roots = append(roots, i)
		} else {
			children[p] = append(children[p], i)
		}
	}

	var lines []string
	var walk func(i int, prefix string, last bool, depth int, parentValue float64)
	walk = func(i int, prefix string, last bool, depth int, parentValue float64) {
		value := 0.0
		if i < len(sun.Values) {
			value = sun.Values[i]
		}
		branch := ""
		next := prefix
		if depth > 0 {
			if last {
				branch, next = "└─ ", prefix+"   "
			} else {
				branch, next = "├─ ", prefix+"│  "
			}
		}
		share := ""
		if parentValue > 0 {
			share = fmt.Sprintf(" (%.0f%%)", value/parentValue*100)
		}
		lines = append(lines, fmt.Sprintf("%s%s%s %s%s",
			prefix, branch, sun.Labels[i], m.theme.MutedText.Render(formatValue(value)), share))
		kids := children[sun.IDs[i]]
		for k, c := range kids {
			walk(c, next, k == len(kids)-1, depth+1, value)
		}
	}
	for _, r := range roots {
		walk(r, "", true, 0, 0)
	}
	return lines
}

func (m Model) renderTaxonomy() string {
	t := m.theme
	h := m.dash.Headline()
	lines := m.taxonomyLines()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d dimensions, %d topics\n\n", t.Label.Render("Taxonomy:"), h.Dimensions, h.Topics))
	if len(lines) == 0 {
		b.WriteString(t.MutedText.Render("No taxonomy loaded."))
		return t.Panel.Render(b.String())
	}
	rows := max(m.bodyHeight()-4, 3)
	start := clampInt(m.scroll, 0, max(len(lines)-rows, 0))
	end := min(start+rows, len(lines))
	b.WriteString(strings.Join(lines[start:end], "\n"))
	if end < len(lines) {
		b.WriteString("\n" + t.MutedText.Render(fmt.Sprintf("… %d more", len(lines)-end)))
	}
	return t.Panel.Render(b.String())
}

func (m Model) renderTrajectory() string {
	t := m.theme
	fig := m.figures[dashboard.TrajectoryPlot]

	var b strings.Builder
	if fig == nil || len(fig.Frames) == 0 {
		b.WriteString(t.MutedText.Render("No trajectory data."))
		return t.Panel.Render(b.String())
	}

	frame := fig.Frames[clampInt(m.frame, 0, len(fig.Frames)-1)]
	state := "⏸ paused"
	if m.playing {
		state = "▶ playing"
	}
	first, _ := strconv.Atoi(fig.Frames[0].Name)
	last, _ := strconv.Atoi(fig.Frames[len(fig.Frames)-1].Name)
	year, _ := strconv.Atoi(frame.Name)
	b.WriteString(t.Label.Render("Year: ") + frame.Name + "  " + state + "\n")
	b.WriteString(m.slider(year, first, last) + "\n\n")

	xTitle, yTitle := "X", "Y"
	if fig.Layout.XAxis != nil {
		xTitle = fig.Layout.XAxis.Title
	}
	if fig.Layout.YAxis != nil {
		yTitle = fig.Layout.YAxis.Title
	}

	sc := firstTrace[*chart.Scatter](&chart.Figure{Data: frame.Data})
	if sc == nil || sc.Len() == 0 {
		b.WriteString(t.MutedText.Render("No countries in this frame."))
		return t.Panel.Render(b.String())
	}

	// Longest life expectancy first.
	order := make([]int, sc.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool { return sc.Y[order[a]] > sc.Y[order[c]] })

	col := 16
	b.WriteString(t.MutedText.Render(fmt.Sprintf("  %s %s %s",
		padRight("Country", LabelWidth), padRight(xTitle, col), padRight(yTitle, col))) + "\n")
	rows := max(m.bodyHeight()-6, 3)
	for n, i := range order {
		if n == rows {
			b.WriteString(t.MutedText.Render(fmt.Sprintf("  … %d more", len(order)-n)) + "\n")
			break
		}
		color, name := "", ""
		if i < len(sc.Marker.Colors) {
			color = sc.Marker.Colors[i]
		}
		if i < len(sc.IDs) {
			name = sc.IDs[i]
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			t.Swatch(color),
			padRight(name, LabelWidth),
			padRight(formatValue(sc.X[i]), col),
			padRight(formatValue(sc.Y[i]), col)))
	}
	return t.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// firstTrace returns the first trace of fig with type T.
func firstTrace[T chart.Trace](fig *chart.Figure) T {
	var zero T
	if fig == nil {
		return zero
	}
	for _, tr := range fig.Data {
		if v, ok := tr.(T); ok {
			return v
		}
	}
	return zero
}
