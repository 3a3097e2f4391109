// Package metrics aggregates per-case request latencies for the run summary.
package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Latency records request durations and reports percentiles over a run.
type Latency struct {
	histogram *hdrhistogram.Histogram
	count     int64
}

// NewLatency creates a recorder covering 1us to 60s with 3 significant digits.
func NewLatency() *Latency {
	return &Latency{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record adds one request duration. Durations outside the histogram range
// are clamped rather than dropped.
func (l *Latency) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}
	_ = l.histogram.RecordValue(us)
	l.count++
}

// Count returns the number of recorded durations.
func (l *Latency) Count() int64 {
	return l.count
}

// Percentile returns the latency at the given percentile (e.g. 95.0).
func (l *Latency) Percentile(p float64) time.Duration {
	return time.Duration(l.histogram.ValueAtQuantile(p)) * time.Microsecond
}

// Summary holds the percentile snapshot included in reports.
type Summary struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"-"`
	Max   time.Duration `json:"-"`
	P50   time.Duration `json:"-"`
	P95   time.Duration `json:"-"`
	P99   time.Duration `json:"-"`

	MinMs float64 `json:"minMs"`
	MaxMs float64 `json:"maxMs"`
	P50Ms float64 `json:"p50Ms"`
	P95Ms float64 `json:"p95Ms"`
	P99Ms float64 `json:"p99Ms"`
}

// Snapshot returns the current percentile summary.
func (l *Latency) Snapshot() *Summary {
	s := &Summary{
		Count: l.count,
		Min:   time.Duration(l.histogram.Min()) * time.Microsecond,
		Max:   time.Duration(l.histogram.Max()) * time.Microsecond,
		P50:   l.Percentile(50),
		P95:   l.Percentile(95),
		P99:   l.Percentile(99),
	}
	s.MinMs = float64(s.Min.Microseconds()) / 1000
	s.MaxMs = float64(s.Max.Microseconds()) / 1000
	s.P50Ms = float64(s.P50.Microseconds()) / 1000
	s.P95Ms = float64(s.P95.Microseconds()) / 1000
	s.P99Ms = float64(s.P99.Microseconds()) / 1000
	return s
}
