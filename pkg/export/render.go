package export

import (
	"math"
	"sort"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/wdiview/pkg/chart"
)

// frame is the pixel geometry of one rendered figure.
type frame struct {
	width, height            float64
	left, right, top, bottom float64
}

func (f frame) plotW() float64 { return f.width - f.left - f.right }
func (f frame) plotH() float64 { return f.height - f.top - f.bottom }

func newFrame(width, height int) frame {
	return frame{width: float64(width), height: float64(height), left: 72, right: 24, top: 44, bottom: 72}
}

// drawFigure lays out every trace of fig on s. Traces of different types
// are drawn in order; the dashboard never mixes them within one figure.
func drawFigure(s surface, fig *chart.Figure, width, height int, title string) {
	f := newFrame(width, height)
	s.Rect(0, 0, f.width, f.height, colorBackdrop)
	if title != "" {
		s.Text(f.width/2, 26, clip(title, 90), colorText, 16, anchorMiddle)
	}
	if fig.IsEmpty() {
		s.Text(f.width/2, f.height/2, "No data", colorSubtle, 14, anchorMiddle)
		return
	}

	var scatters []*chart.Scatter
	for _, tr := range fig.Data {
		switch t := tr.(type) {
		case *chart.Choropleth:
			drawChoropleth(s, f, t)
		case *chart.Bar:
			drawBar(s, f, t, axisTitle(fig.Layout.YAxis))
		case *chart.Sunburst:
			drawSunburst(s, f, t)
		case *chart.Scatter:
			scatters = append(scatters, t)
		}
	}
	if len(scatters) > 0 {
		drawScatter(s, f, scatters, fig.Layout)
	}
}

func axisTitle(a *chart.Axis) string {
	if a == nil {
		return ""
	}
	return a.Title
}

// --- choropleth ----------------------------------------------------------------

// drawChoropleth renders the map as a grid of tiles ordered by country code,
// one per location, colored on the trace's scale, with a color bar.
func drawChoropleth(s surface, f frame, c *chart.Choropleth) {
	type tile struct {
		code string
		z    float64
	}
	tiles := make([]tile, len(c.Locations))
	for i, code := range c.Locations {
		tiles[i] = tile{code: code, z: c.Z[i]}
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].code < tiles[j].code })

	barW := 24.0
	gridW := f.plotW() - barW - 48
	cols := int(math.Ceil(math.Sqrt(float64(len(tiles)) * gridW / f.plotH())))
	cols = max(cols, 1)
	rows := (len(tiles) + cols - 1) / cols
	size := math.Min(gridW/float64(cols), f.plotH()/float64(rows))

	for i, t := range tiles {
		x := f.left + float64(i%cols)*size
		y := f.top + float64(i/cols)*size
		s.Rect(x+1, y+1, size-2, size-2, scaleColor(t.z, c.ZMin, c.ZMax))
		if size >= 22 {
			s.Text(x+size/2, y+size/2+4, t.code, colorText, 9, anchorMiddle)
		}
	}

	// color bar
	bx := f.width - f.right - barW
	const steps = 40
	h := f.plotH() / steps
	for i := 0; i < steps; i++ {
		v := c.ZMax - (c.ZMax-c.ZMin)*float64(i)/float64(steps-1)
		s.Rect(bx, f.top+float64(i)*h, barW, h+0.5, scaleColor(v, c.ZMin, c.ZMax))
	}
	s.Text(bx-4, f.top+10, formatTick(c.ZMax), colorSubtle, 10, anchorEnd)
	s.Text(bx-4, f.top+f.plotH(), formatTick(c.ZMin), colorSubtle, 10, anchorEnd)
}

// --- bar -------------------------------------------------------------------

func drawBar(s surface, f frame, b *chart.Bar, yTitle string) {
	if len(b.X) == 0 {
		return
	}
	hi := 0.0
	for _, v := range b.Y {
		hi = math.Max(hi, v)
	}
	lo := 0.0
	for _, v := range b.Y {
		lo = math.Min(lo, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	drawYAxis(s, f, lo, hi, yTitle)

	slot := f.plotW() / float64(len(b.X))
	width := b.Width
	if width <= 0 || width > 1 {
		width = 0.8
	}
	zero := yPos(f, 0, lo, hi)
	for i, name := range b.X {
		fill := colorMissing
		switch {
		case i < len(b.Marker.Colors):
			fill = parseColor(b.Marker.Colors[i])
		case b.Marker.Color != "":
			fill = parseColor(b.Marker.Color)
		}
		x := f.left + float64(i)*slot + slot*(1-width)/2
		y := yPos(f, b.Y[i], lo, hi)
		top, h := math.Min(y, zero), math.Abs(zero-y)
		s.Rect(x, top, slot*width, h, fill)
		label := clip(name, max(int(slot/7), 3))
		s.Text(x+slot*width/2, f.height-f.bottom+16, label, colorText, 9, anchorMiddle)
	}
}

// --- scatter ---------------------------------------------------------------

func drawScatter(s surface, f frame, traces []*chart.Scatter, layout chart.Layout) {
	var xs, ys []float64
	for _, t := range traces {
		xs = append(xs, t.X...)
		ys = append(ys, t.Y...)
	}
	xlo, xhi := axisRange(layout.XAxis, xs)
	ylo, yhi := axisRange(layout.YAxis, ys)

	drawYAxis(s, f, ylo, yhi, axisTitle(layout.YAxis))
	for i := 0; i <= 4; i++ {
		v := xlo + (xhi-xlo)*float64(i)/4
		x := xPos(f, v, xlo, xhi)
		s.Line(x, f.top+f.plotH(), x, f.top+f.plotH()+4, colorAxis, 1)
		s.Text(x, f.top+f.plotH()+18, formatTick(v), colorSubtle, 10, anchorMiddle)
	}
	if title := axisTitle(layout.XAxis); title != "" {
		s.Text(f.left+f.plotW()/2, f.height-16, clip(title, 80), colorText, 12, anchorMiddle)
	}

	for _, t := range traces {
		for i := range t.X {
			fill := parseColor(t.Marker.Color)
			if i < len(t.Marker.Colors) {
				fill = parseColor(t.Marker.Colors[i])
			}
			s.Circle(xPos(f, t.X[i], xlo, xhi), yPos(f, t.Y[i], ylo, yhi), 5, fill)
		}
	}
}

func axisRange(a *chart.Axis, vals []float64) (float64, float64) {
	if a != nil && len(a.Range) == 2 && a.Range[1] > a.Range[0] {
		return a.Range[0], a.Range[1]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// --- sunburst --------------------------------------------------------------

// drawSunburst lays the hierarchy out as concentric rings. With "total"
// branch values a child's angle is its share of the parent's value; with
// "remainder" the parent's own value is added to the sum of its children.
func drawSunburst(s surface, f frame, sb *chart.Sunburst) {
	children := make(map[string][]int)
	var roots []int
	for i, p := range sb.Parents {
		if p == "" {
			roots = append(roots, i)
		} else {
			children[p] = append(children[p], i)
		}
	}

	total := func(i int) float64 {
		return sb.Values[i]
	}
	if sb.BranchValues != chart.BranchTotal {
		var sum func(i int) float64
		sum = func(i int) float64 {
			v := sb.Values[i]
			for _, c := range children[sb.IDs[i]] {
				v += sum(c)
			}
			return v
		}
		total = sum
	}

	depth := 1
	var measure func(i, d int)
	measure = func(i, d int) {
		depth = max(depth, d)
		for _, c := range children[sb.IDs[i]] {
			measure(c, d+1)
		}
	}
	for _, r := range roots {
		measure(r, 1)
	}

	cx, cy := f.width/2, f.top+f.plotH()/2
	ring := math.Min(f.plotW(), f.plotH()) / 2 / float64(depth)

	palette := newRingPalette()
	var draw func(i, d int, a0, a1 float64, fill string)
	draw = func(i, d int, a0, a1 float64, fill string) {
		if d == 1 {
			s.Circle(cx, cy, ring, parseColor("#FFFFFF"))
		} else {
			xs, ys := wedge(cx, cy, ring*float64(d-1), ring*float64(d), a0, a1)
			s.Polygon(xs, ys, parseColor(fill))
		}
		if a1-a0 > 0.25 || d == 1 {
			r := ring * (float64(d) - 0.5)
			if d == 1 {
				r = 0
			}
			mid := (a0 + a1) / 2
			s.Text(cx+r*math.Cos(mid), cy+r*math.Sin(mid)+4, clip(sb.Labels[i], 14), colorText, 10, anchorMiddle)
		}
		kids := children[sb.IDs[i]]
		parentTotal := total(i)
		if parentTotal <= 0 {
			return
		}
		start := a0
		for _, c := range kids {
			span := (a1 - a0) * total(c) / parentTotal
			childFill := fill
			if d == 1 {
				childFill = palette.next()
			}
			draw(c, d+1, start, start+span, childFill)
			start += span
		}
	}

	share := 2 * math.Pi / float64(max(len(roots), 1))
	for k, r := range roots {
		draw(r, 1, -math.Pi/2+float64(k)*share, -math.Pi/2+float64(k+1)*share, "#FFFFFF")
	}
}

// wedge approximates a ring segment between radii r0 and r1 and angles a0
// and a1 with a polygon.
func wedge(cx, cy, r0, r1, a0, a1 float64) ([]float64, []float64) {
	n := max(int(math.Ceil((a1-a0)/(math.Pi/48))), 1)
	xs := make([]float64, 0, 2*(n+1))
	ys := make([]float64, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		xs = append(xs, cx+r1*math.Cos(a))
		ys = append(ys, cy+r1*math.Sin(a))
	}
	for i := n; i >= 0; i-- {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		xs = append(xs, cx+r0*math.Cos(a))
		ys = append(ys, cy+r0*math.Sin(a))
	}
	return xs, ys
}

type ringPalette struct{ i int }

func newRingPalette() *ringPalette { return &ringPalette{} }

func (p *ringPalette) next() string {
	c := qualitative[p.i%len(qualitative)]
	p.i++
	return c
}

var qualitative = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// --- axes ------------------------------------------------------------------

func drawYAxis(s surface, f frame, lo, hi float64, title string) {
	s.Line(f.left, f.top, f.left, f.top+f.plotH(), colorAxis, 1)
	s.Line(f.left, f.top+f.plotH(), f.left+f.plotW(), f.top+f.plotH(), colorAxis, 1)
	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		y := yPos(f, v, lo, hi)
		if i > 0 {
			s.Line(f.left+1, y, f.left+f.plotW(), y, colorGrid, 1)
		}
		s.Text(f.left-6, y+4, formatTick(v), colorSubtle, 10, anchorEnd)
	}
	if title != "" {
		s.Text(f.left, f.top-8, clip(title, 70), colorText, 11, anchorStart)
	}
}

func xPos(f frame, v, lo, hi float64) float64 {
	return f.left + (v-lo)/(hi-lo)*f.plotW()
}

func yPos(f frame, v, lo, hi float64) float64 {
	return f.top + f.plotH() - (v-lo)/(hi-lo)*f.plotH()
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// clip shortens s to at most width cells, marking the cut with "...". The
// PNG face is ASCII-only, so the marker is too.
func clip(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
