// Package metrics keeps in-process timings and counters for the dashboard:
// table load, static figures, each handler, figure encoding and terminal
// rendering, plus session and control-change counts.
//
// Collection is on unless WDI_METRICS=0. Snapshots are served at
// /api/metrics and printed by wdi --metrics.
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("WDI_METRICS") != "0")
}

// Enabled reports whether measurements are recorded.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(e bool) { enabled.Store(e) }

// TimingMetric accumulates durations of one named step.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	most  atomic.Int64
	least atomic.Int64 // 0 until the first measurement
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	swapIf(&m.most, ns, func(old int64) bool { return ns > old })
	swapIf(&m.least, ns, func(old int64) bool { return old == 0 || ns < old })
}

// swapIf stores v into a while better(current) holds.
func swapIf(a *atomic.Int64, v int64, better func(int64) bool) {
	for {
		old := a.Load()
		if !better(old) || a.CompareAndSwap(old, v) {
			return
		}
	}
}

func (m *TimingMetric) Name() string { return m.name }
func (m *TimingMetric) Count() int64 { return m.count.Load() }
func (m *TimingMetric) TotalNs() int64 { return m.total.Load() }
func (m *TimingMetric) MaxNs() int64 { return m.most.Load() }

// MinNs is 0 when nothing has been recorded.
func (m *TimingMetric) MinNs() int64 { return m.least.Load() }

// AvgNs is 0 when nothing has been recorded.
func (m *TimingMetric) AvgNs() int64 {
	n := m.count.Load()
	if n == 0 {
		return 0
	}
	return m.total.Load() / n
}

// Stats reads every field in milliseconds.
func (m *TimingMetric) Stats() TimingStats {
	const ms = float64(time.Millisecond)
	return TimingStats{
		Name:    m.name,
		Count:   m.Count(),
		TotalMs: float64(m.TotalNs()) / ms,
		AvgMs:   float64(m.AvgNs()) / ms,
		MaxMs:   float64(m.MaxNs()) / ms,
		MinMs:   float64(m.MinNs()) / ms,
	}
}

func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.most.Store(0)
	m.least.Store(0)
}

// TimingStats is the JSON form of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts a measurement; call the result to record it:
//
//	defer metrics.Timer(metrics.FigureEncode)()
func Timer(m *TimingMetric) func() {
	return TimerWithCallback(m, nil)
}

// TimerWithCallback is Timer that also hands the duration to cb.
func TimerWithCallback(m *TimingMetric, cb func(time.Duration)) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		m.Record(d)
		if cb != nil {
			cb(d)
		}
	}
}

var (
	TableLoad        = newTimingMetric("table_load")
	StaticBuild      = newTimingMetric("static_build")
	GeoValueHandler  = newTimingMetric("geo_value_handler")
	BivariateHandler = newTimingMetric("bivariate_handler")
	FigureEncode     = newTimingMetric("figure_encode")
	FigureRender     = newTimingMetric("figure_render")
	UIRender         = newTimingMetric("ui_render")
)

// AllTimingMetrics lists the timings in report order.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		TableLoad, StaticBuild, GeoValueHandler, BivariateHandler,
		FigureEncode, FigureRender, UIRender,
	}
}

// ResetAll zeroes every timing and counter.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
	for _, c := range AllCounters() {
		c.Reset()
	}
}

// AllTimingStats returns stats for the timings that have measurements.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range AllTimingMetrics() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
