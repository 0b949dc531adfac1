package main

import (
	"sync"
	"time"
)

// DefaultTickRate is the simulation frequency in Hz. The rate is part
// of the physics law: integration divides by it, so running at another
// rate changes trajectories.
const DefaultTickRate = 30.0

// Engine advances every playing room at a fixed rate: integrate
// projectiles, resolve hits, prune, broadcast. It is the one mutation
// source with its own timer; it serializes with actions through each
// room's lock.
type Engine struct {
	registry  *Registry
	rate      float64
	interval  time.Duration
	metrics   *Metrics
	analytics *Analytics

	tick    uint64
	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewEngine creates a tick engine at the given rate
func NewEngine(registry *Registry, rate float64, metrics *Metrics, analytics *Analytics) *Engine {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &Engine{
		registry:  registry,
		rate:      rate,
		interval:  time.Duration(float64(time.Second) / rate),
		metrics:   metrics,
		analytics: analytics,
		stop:      make(chan struct{}),
	}
}

// Run starts the tick loop
func (e *Engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.step()
		case <-e.stop:
			return
		}
	}
}

// Stop terminates the tick loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.running = false
		close(e.stop)
	}
}

// step runs one tick across all rooms
func (e *Engine) step() {
	start := time.Now()
	e.tick++
	e.registry.ForEach(func(room *Room) {
		e.tickRoom(room)
	})
	if e.metrics != nil {
		e.metrics.AddTick(time.Since(start).Nanoseconds())
	}
}

// tickRoom advances one room by one tick. Waiting rooms carry no
// projectiles and are skipped; playing rooms broadcast every tick even
// when idle.
func (e *Engine) tickRoom(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Status != RoomPlaying {
		return
	}

	for _, pr := range room.Projectiles {
		pr.Advance(e.rate)

		// Strict inequality on the hit radius; owners are immune to
		// their own shells. The scan stops at the first struck player,
		// so a shell damages at most one player in its lifetime.
		for _, p := range room.Players {
			if p.ID == pr.OwnerID {
				continue
			}
			if Distance(pr.X, pr.Y, p.X, p.Y) < HitRadius {
				p.TakeDamage(ProjectileDamage)
				pr.Hit = true
				if e.metrics != nil {
					e.metrics.IncHit()
				}
				if e.analytics != nil {
					e.analytics.Track(EvtPlayerHit, room.ID, p.ID, "")
				}
				break
			}
		}

		if pr.Hit || pr.OutOfBounds() {
			pr.Remove = true
		}
	}

	// Prune in place
	live := room.Projectiles[:0]
	for _, pr := range room.Projectiles {
		if !pr.Remove {
			live = append(live, pr)
		}
	}
	room.Projectiles = live

	room.broadcastSnapshotLocked(e.tick)
}
