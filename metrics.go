package main

import "sync/atomic"

// Metrics tracks server counters for the /metrics endpoint. All fields
// are updated with atomics so the game loop never contends on them.
type Metrics struct {
	TickCount       int64
	TotalTickNs     int64
	ActionsApplied  int64
	ActionsRejected int64
	ShotsFired      int64
	HitsScored      int64
}

func (m *Metrics) IncActionApplied()  { atomic.AddInt64(&m.ActionsApplied, 1) }
func (m *Metrics) IncActionRejected() { atomic.AddInt64(&m.ActionsRejected, 1) }
func (m *Metrics) IncShot()           { atomic.AddInt64(&m.ShotsFired, 1) }
func (m *Metrics) IncHit()            { atomic.AddInt64(&m.HitsScored, 1) }

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for HTTP output
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":       tick,
		"avg_tick_ms":      avgMs,
		"actions_applied":  atomic.LoadInt64(&m.ActionsApplied),
		"actions_rejected": atomic.LoadInt64(&m.ActionsRejected),
		"shots_fired":      atomic.LoadInt64(&m.ShotsFired),
		"hits_scored":      atomic.LoadInt64(&m.HitsScored),
	}
}
