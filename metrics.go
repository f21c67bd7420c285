package coros

import (
	"sync"
	"sync/atomic"
	"time"
)

// poolMetrics holds a pool's optional counters. A nil *poolMetrics (the
// default, when WithMetrics(false)) makes every method here a no-op, so
// the steal/submit hot path pays nothing when metrics are disabled.
type poolMetrics struct {
	steals     atomic.Uint64
	stealFails atomic.Uint64

	latencyMu sync.Mutex
	latency   *latencyDistribution
}

func newPoolMetrics() *poolMetrics {
	return &poolMetrics{latency: newLatencyDistribution()}
}

func (m *poolMetrics) recordSteal() {
	if m == nil {
		return
	}
	m.steals.Add(1)
}

func (m *poolMetrics) recordStealFailed() {
	if m == nil {
		return
	}
	m.stealFails.Add(1)
}

func (m *poolMetrics) recordTaskLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.latencyMu.Lock()
	m.latency.Observe(float64(d.Microseconds()))
	m.latencyMu.Unlock()
}

// PoolMetrics is a point-in-time snapshot of a pool's optional counters.
type PoolMetrics struct {
	Steals         uint64
	StealFailures  uint64
	TaskCount      int
	TaskLatencyP50 time.Duration
	TaskLatencyP99 time.Duration
}

// Metrics returns a snapshot of the pool's counters. It returns the zero
// value if the pool was constructed without WithMetrics(true).
func (p *Pool) Metrics() PoolMetrics {
	if p.metrics == nil {
		return PoolMetrics{}
	}
	m := p.metrics
	m.latencyMu.Lock()
	defer m.latencyMu.Unlock()
	return PoolMetrics{
		Steals:         m.steals.Load(),
		StealFailures:  m.stealFails.Load(),
		TaskCount:      m.latency.Observations(),
		TaskLatencyP50: time.Duration(m.latency.P50()) * time.Microsecond,
		TaskLatencyP99: time.Duration(m.latency.P99()) * time.Microsecond,
	}
}
