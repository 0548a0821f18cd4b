package metrics

import (
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")

	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	if m.Count() != 2 {
		t.Fatalf("Count=%d; want 2", m.Count())
	}
	if m.MinNs() != int64(2*time.Millisecond) || m.MaxNs() != int64(4*time.Millisecond) {
		t.Fatalf("min/max = %d/%d", m.MinNs(), m.MaxNs())
	}
	if m.AvgNs() != int64(3*time.Millisecond) {
		t.Fatalf("AvgNs=%d", m.AvgNs())
	}

	s := m.Stats()
	if s.Name != "test" || s.AvgMs != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 || m.AvgNs() != 0 {
		t.Fatal("Reset did not clear metric")
	}
}

func TestTimer_Disabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Fatal("disabled timer should not record")
	}
}

func TestCountersAndSnapshot(t *testing.T) {
	SetEnabled(true)
	ResetAll()

	ActiveSessions.Inc()
	ActiveSessions.Inc()
	ActiveSessions.Add(-1)
	ControlChanges.Inc()
	Timer(GeoValueHandler)()

	s := TakeSnapshot()
	if s.Counters["active_sessions"] != 1 || s.Counters["control_changes"] != 1 {
		t.Fatalf("unexpected counters %v", s.Counters)
	}
	found := false
	for _, ts := range s.Timings {
		if ts.Name == "geo_value_handler" && ts.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("geo_value_handler missing from %+v", s.Timings)
	}
	ResetAll()
}
