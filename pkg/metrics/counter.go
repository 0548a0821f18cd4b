package metrics

import "sync/atomic"

// Counter is a monotonically increasing (or gauge-style, via Add with a
// negative delta) int64. Thread-safe.
type Counter struct {
	name  string
	value atomic.Int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Add adjusts the counter by delta.
func (c *Counter) Add(delta int64) {
	if !Enabled() {
		return
	}
	c.value.Add(delta)
}

// Inc adds one.
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current value.
func (c *Counter) Value() int64 {
	return c.value.Load()
}

// Name returns the counter name.
func (c *Counter) Name() string {
	return c.name
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() {
	c.value.Store(0)
}

var (
	ActiveSessions = newCounter("active_sessions")
	ControlChanges = newCounter("control_changes")
	ControlErrors  = newCounter("control_errors")
)

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{ActiveSessions, ControlChanges, ControlErrors}
}

// Snapshot is the serialisable view of every metric.
type Snapshot struct {
	Timings  []TimingStats    `json:"timings"`
	Counters map[string]int64 `json:"counters"`
}

// TakeSnapshot collects the current timing stats and counter values.
func TakeSnapshot() Snapshot {
	s := Snapshot{
		Timings:  AllTimingStats(),
		Counters: make(map[string]int64),
	}
	for _, c := range AllCounters() {
		s.Counters[c.Name()] = c.Value()
	}
	return s
}
