package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// anchor is the horizontal text alignment.
type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// surface is the drawing vocabulary shared by the SVG and PNG backends, so
// every chart type is laid out once.
type surface interface {
	Rect(x, y, w, h float64, fill color.RGBA)
	Polygon(xs, ys []float64, fill color.RGBA)
	Circle(cx, cy, r float64, fill color.RGBA)
	Line(x1, y1, x2, y2 float64, stroke color.RGBA, width float64)
	Text(x, y float64, s string, c color.RGBA, size int, a anchor)
}

// --- SVG -------------------------------------------------------------------

type svgSurface struct {
	canvas *svg.SVG
}

func newSVGSurface(w io.Writer, width, height int) *svgSurface {
	canvas := svg.New(w)
	canvas.Start(width, height)
	return &svgSurface{canvas: canvas}
}

func (s *svgSurface) End() { s.canvas.End() }

func (s *svgSurface) Rect(x, y, w, h float64, fill color.RGBA) {
	s.canvas.Rect(px(x), px(y), px(w), px(h), fillStyle(fill))
}

func (s *svgSurface) Polygon(xs, ys []float64, fill color.RGBA) {
	ix := make([]int, len(xs))
	iy := make([]int, len(ys))
	for i := range xs {
		ix[i], iy[i] = px(xs[i]), px(ys[i])
	}
	s.canvas.Polygon(ix, iy, fillStyle(fill)+";stroke:#ffffff;stroke-width:1")
}

func (s *svgSurface) Circle(cx, cy, r float64, fill color.RGBA) {
	s.canvas.Circle(px(cx), px(cy), px(r), fillStyle(fill)+";fill-opacity:0.85")
}

func (s *svgSurface) Line(x1, y1, x2, y2 float64, stroke color.RGBA, width float64) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2), fmt.Sprintf("stroke:%s;stroke-width:%g", css(stroke), width))
}

func (s *svgSurface) Text(x, y float64, text string, c color.RGBA, size int, a anchor) {
	align := "start"
	switch a {
	case anchorMiddle:
		align = "middle"
	case anchorEnd:
		align = "end"
	}
	s.canvas.Text(px(x), px(y), text,
		fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;text-anchor:%s", css(c), size, align))
}

// --- PNG -------------------------------------------------------------------

type pngSurface struct {
	dc *gg.Context
}

func newPNGSurface(width, height int) *pngSurface {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	return &pngSurface{dc: dc}
}

func (p *pngSurface) Rect(x, y, w, h float64, fill color.RGBA) {
	p.dc.SetColor(fill)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
}

func (p *pngSurface) Polygon(xs, ys []float64, fill color.RGBA) {
	if len(xs) == 0 {
		return
	}
	p.dc.NewSubPath()
	p.dc.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		p.dc.LineTo(xs[i], ys[i])
	}
	p.dc.ClosePath()
	p.dc.SetColor(fill)
	p.dc.FillPreserve()
	p.dc.SetColor(color.RGBA{0xff, 0xff, 0xff, 0xff})
	p.dc.SetLineWidth(1)
	p.dc.Stroke()
}

func (p *pngSurface) Circle(cx, cy, r float64, fill color.RGBA) {
	p.dc.SetColor(fill)
	p.dc.DrawCircle(cx, cy, r)
	p.dc.Fill()
}

func (p *pngSurface) Line(x1, y1, x2, y2 float64, stroke color.RGBA, width float64) {
	p.dc.SetColor(stroke)
	p.dc.SetLineWidth(width)
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

// Text ignores size: the PNG backend only has the fixed 7x13 face.
func (p *pngSurface) Text(x, y float64, text string, c color.RGBA, _ int, a anchor) {
	p.dc.SetColor(c)
	ax := 0.0
	switch a {
	case anchorMiddle:
		ax = 0.5
	case anchorEnd:
		ax = 1
	}
	p.dc.DrawStringAnchored(text, x, y, ax, 0)
}

// --- helpers ---------------------------------------------------------------

func px(v float64) int {
	return int(math.Round(v))
}

func fillStyle(c color.RGBA) string {
	return "fill:" + css(c)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
