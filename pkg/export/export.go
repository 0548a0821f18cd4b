// Package export writes dashboard figures to static files: SVG and PNG
// renderings for reports, and the Plotly JSON for anything that can draw it.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
)

// Format is an output file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ParseFormat normalises a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (want svg, png or json)", s)
}

// Default canvas size when the figure does not set a height.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// Options controls a single figure export.
type Options struct {
	Path   string // Output path; format inferred from extension when Format is empty
	Format Format
	Title  string // Rendered above the chart; defaults to the figure's title
	Width  int
	Height int
}

// SaveFigure renders fig to opts.Path.
func SaveFigure(fig *chart.Figure, opts Options) error {
	if fig == nil {
		return fmt.Errorf("no figure to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := opts.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = FormatPNG
		case ".json":
			format = FormatJSON
		case ".svg":
			format = FormatSVG
		default:
			format = FormatSVG
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, fig, format, opts); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Path, err)
	}
	debug.Log("export: wrote %s (%d bytes)", opts.Path, buf.Len())
	return nil
}

// Render writes fig to w in the given format.
func Render(w io.Writer, fig *chart.Figure, format Format, opts Options) error {
	defer metrics.Timer(metrics.FigureRender)()

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = fig.Layout.Height
	}
	if height <= 0 {
		height = DefaultHeight
	}
	title := opts.Title
	if title == "" {
		title = fig.Layout.Title
	}

	switch format {
	case FormatJSON:
		raw, err := chart.EncodeIndent(fig)
		if err != nil {
			return fmt.Errorf("encode figure: %w", err)
		}
		_, err = w.Write(raw)
		return err
	case FormatSVG:
		s := newSVGSurface(w, width, height)
		drawFigure(s, fig, width, height, title)
		s.End()
		return nil
	case FormatPNG:
		s := newPNGSurface(width, height)
		drawFigure(s, fig, width, height, title)
		return s.dc.EncodePNG(w)
	}
	return fmt.Errorf("unhandled format %q", format)
}

// Named is a figure with the file stem it is exported under.
type Named struct {
	Name   string
	Title  string
	Figure *chart.Figure
}

// ExportSet writes every figure to dir as <name>.<format> and returns the
// paths written, sorted. For SVG and PNG an animated figure additionally gets
// one file per frame under <name>/, named after the frame.
func ExportSet(dir string, format Format, figs []Named) ([]string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	var written []string
	save := func(path, title string, fig *chart.Figure) error {
		if err := SaveFigure(fig, Options{Path: path, Format: format, Title: title}); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, n := range figs {
		if n.Figure == nil {
			continue
		}
		if err := save(filepath.Join(dir, n.Name+"."+string(format)), n.Title, n.Figure); err != nil {
			return written, err
		}
		if format == FormatJSON {
			continue
		}
		for _, fr := range n.Figure.Frames {
			frameFig := &chart.Figure{Data: fr.Data, Layout: n.Figure.Layout}
			path := filepath.Join(dir, n.Name, fr.Name+"."+string(format))
			title := strings.TrimSpace(n.Title + " " + fr.Name)
			if err := save(path, title, frameFig); err != nil {
				return written, err
			}
		}
	}
	sort.Strings(written)
	return written, nil
}
