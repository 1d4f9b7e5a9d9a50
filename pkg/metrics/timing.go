// Package metrics times the hot paths of hv: dataset loads, CSV parsing,
// scene rendering and encoding, scroll resolution and terminal frames.
//
// Timings are kept in memory and are safe to record from the background
// loaders. Set HV_METRICS=0 to turn collection off.
//
//	defer metrics.Timer(metrics.SceneRender)()
package metrics

import (
	"os"
	"slices"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("HV_METRICS") != "0")
}

// Enabled reports whether timings are being collected.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(on bool) { enabled.Store(on) }

// TimingMetric accumulates durations for one named operation.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled.Load() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	for old := m.max.Load(); ns > old; old = m.max.Load() {
		if m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for old := m.min.Load(); old == 0 || ns < old; old = m.min.Load() {
		if m.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Reset drops every sample.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats is a point-in-time view of a metric, in milliseconds.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Stats returns the current view of m.
func (m *TimingMetric) Stats() TimingStats {
	count, total := m.count.Load(), m.total.Load()
	s := TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: ms(total),
		MaxMs:   ms(m.max.Load()),
		MinMs:   ms(m.min.Load()),
	}
	if count > 0 {
		s.AvgMs = ms(total / count)
	}
	return s
}

func ms(ns int64) float64 { return float64(ns) / 1e6 }

// Timer starts timing m; call the returned func to record the sample.
func Timer(m *TimingMetric) func() {
	if m == nil || !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

var (
	DatasetLoad   = newTimingMetric("dataset_load")
	CSVParse      = newTimingMetric("csv_parse")
	SceneRender   = newTimingMetric("scene_render")
	SceneEncode   = newTimingMetric("scene_encode")
	ScrollResolve = newTimingMetric("scroll_resolve")
	UIRender      = newTimingMetric("ui_render")
)

var all = []*TimingMetric{DatasetLoad, CSVParse, SceneRender, SceneEncode, ScrollResolve, UIRender}

// ResetAll clears every registered metric.
func ResetAll() {
	for _, m := range all {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have samples, slowest
// total first.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	slices.SortStableFunc(stats, func(a, b TimingStats) int {
		switch {
		case a.TotalMs > b.TotalMs:
			return -1
		case a.TotalMs < b.TotalMs:
			return 1
		}
		return 0
	})
	return stats
}
