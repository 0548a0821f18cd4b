// Package chart defines the chart descriptions produced by the dashboard
// handlers. A Figure mirrors the Plotly figure schema (data, layout, frames)
// so the browser shell can hand it to Plotly unchanged, while the terminal
// shell and the static exporters read the typed traces directly.
//
// Figures are values: every handler invocation builds a new one and the
// previous figure is discarded, never patched.
package chart

import (
	"bytes"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wdiview/pkg/metrics"
)

// TraceType names a Plotly trace type.
type TraceType string

const (
	TypeChoropleth TraceType = "choropleth"
	TypeBar        TraceType = "bar"
	TypeScatter    TraceType = "scatter"
	TypeSunburst   TraceType = "sunburst"
)

// Trace is one data series of a figure.
type Trace interface {
	TraceType() TraceType
	// Len returns the number of data points.
	Len() int
}

// Figure is one renderable chart: traces, layout and optional animation frames.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

// Frame is one step of an animated figure.
type Frame struct {
	Name   string  `json:"name"`
	Data   []Trace `json:"data"`
	Traces []int   `json:"traces,omitempty"`
}

// Points returns the total number of data points across all traces.
func (f *Figure) Points() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, t := range f.Data {
		n += t.Len()
	}
	return n
}

// IsEmpty reports whether the figure has no data points.
func (f *Figure) IsEmpty() bool {
	return f.Points() == 0
}

// MarshalJSON always emits "data" as an array, even for empty figures, since
// Plotly rejects a null data field.
func (f Figure) MarshalJSON() ([]byte, error) {
	type alias Figure
	a := alias(f)
	if a.Data == nil {
		a.Data = []Trace{}
	}
	return json.Marshal(a)
}

// Encode serialises a figure to JSON.
func Encode(f *Figure) ([]byte, error) {
	defer metrics.Timer(metrics.FigureEncode)()
	return json.Marshal(f)
}

// EncodeIndent serialises a figure to indented JSON, for exports and the clipboard.
func EncodeIndent(f *Figure) ([]byte, error) {
	raw, err := Encode(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
