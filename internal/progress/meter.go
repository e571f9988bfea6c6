// Package progress measures how far a scan has come and reports it to a
// terminal line or to the log.
package progress

import (
	"math"
	"sync"
	"time"
)

// Stage names the part of a scan being measured.
type Stage string

const (
	StageCollect Stage = "collect"
	StageProcess Stage = "process"
)

const (
	// DefaultInterval throttles notifications from Tick.
	DefaultInterval = 200 * time.Millisecond
	// DefaultWarmup is the number of finished files before an ETA is trusted.
	DefaultWarmup = 8

	smoothing = 0.2
)

// Snapshot is the state of a scan at one instant.
type Snapshot struct {
	Stage   Stage         `json:"stage"`
	Total   int           `json:"total"`
	Done    int           `json:"done"`
	Rate    float64       `json:"rate_per_sec"`
	ETA     time.Duration `json:"eta"`
	Warmup  bool          `json:"warmup"`
	Current string        `json:"current,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Remaining is the number of files left, never negative.
func (s Snapshot) Remaining() int {
	return max(s.Total-s.Done, 0)
}

// Percent is Done over Total clamped to 0..100. An empty stage counts as
// finished once anything is done.
func (s Snapshot) Percent() int {
	if s.Total <= 0 {
		if s.Done > 0 {
			return 100
		}
		return 0
	}
	return min(max(s.Done*100/s.Total, 0), 100)
}

// Meter counts finished files from any number of workers and smooths the
// throughput with an exponential moving average. Set the exported fields
// before the first call.
type Meter struct {
	Interval time.Duration
	Warmup   int
	Now      func() time.Time

	mu       sync.Mutex
	stage    Stage
	total    int
	done     int
	rate     float64
	started  time.Time
	last     time.Time
	notified time.Time
}

// NewMeter returns a meter using the wall clock and default thresholds.
func NewMeter() *Meter {
	return &Meter{Interval: DefaultInterval, Warmup: DefaultWarmup, Now: time.Now}
}

func (m *Meter) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Begin starts stage with total files and resets the counters.
func (m *Meter) Begin(stage Stage, total int) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if m.started.IsZero() {
		m.started = now
	}
	m.stage, m.total, m.done, m.rate = stage, total, 0, 0
	m.last, m.notified = now, now
	return m.snapshot(now, "")
}

// Tick records one finished file. The boolean reports whether the caller
// should publish the snapshot: the interval elapsed or the stage is done.
func (m *Meter) Tick(file string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.Before(m.last) {
		now = m.last
	}
	instant := 1 / max(now.Sub(m.last).Seconds(), 1e-6)
	if m.rate == 0 {
		m.rate = instant
	} else {
		m.rate = smoothing*instant + (1-smoothing)*m.rate
	}
	m.done++
	m.last = now
	snap := m.snapshot(now, file)
	publish := now.Sub(m.notified) >= m.Interval || snap.Remaining() == 0
	if publish {
		m.notified = now
	}
	return snap, publish
}

// Finish marks the stage complete.
func (m *Meter) Finish() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = max(m.done, m.total)
	return m.snapshot(m.now(), "")
}

func (m *Meter) snapshot(now time.Time, current string) Snapshot {
	s := Snapshot{
		Stage:   m.stage,
		Total:   m.total,
		Done:    m.done,
		Rate:    m.rate,
		Warmup:  m.done < m.Warmup,
		Current: current,
		Elapsed: now.Sub(m.started),
	}
	if !s.Warmup && m.rate > 0 {
		s.ETA = eta(s.Remaining(), m.rate)
	}
	return s
}

func eta(remaining int, rate float64) time.Duration {
	secs := float64(remaining) / rate
	switch {
	case math.IsNaN(secs) || secs <= 0:
		return 0
	case secs >= math.MaxInt64/float64(time.Second):
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}
