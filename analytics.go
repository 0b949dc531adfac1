package main

import (
	"database/sql"
	"sync"
	"time"
)

// Event types for telemetry tracking
const (
	EvtRoomCreated  = "room_created"
	EvtRoomClosed   = "room_closed"
	EvtPlayerJoined = "player_joined"
	EvtPlayerLeft   = "player_left"
	EvtGameStarted  = "game_started"
	EvtShotFired    = "shot_fired"
	EvtPlayerHit    = "player_hit"
)

// TelemetryEvent represents a single trackable event
type TelemetryEvent struct {
	Type      string
	RoomID    string
	PlayerID  string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics persists telemetry events with batched background writes.
// Track never blocks: under backpressure events are dropped instead of
// stalling the tick loop.
type Analytics struct {
	db     *DB
	events chan TelemetryEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan TelemetryEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, roomID, playerID, data string) {
	select {
	case a.events <- TelemetryEvent{
		Type:      evtType,
		RoomID:    roomID,
		PlayerID:  playerID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full — drop event rather than blocking the caller
	}
}

// Stop flushes pending events and shuts the writer down
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer batches events and writes them to the database
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]TelemetryEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			close(a.events)
			for evt := range a.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events in one transaction
func (a *Analytics) flush(events []TelemetryEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		Log.Errorf("telemetry: begin tx: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO telemetry_events (event_type, room_id, player_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		Log.Errorf("telemetry: prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		rid := sql.NullString{String: evt.RoomID, Valid: evt.RoomID != ""}
		pid := sql.NullString{String: evt.PlayerID, Valid: evt.PlayerID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, rid, pid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			Log.Errorf("telemetry: insert: %v", err)
		}
	}
	tx.Commit()
}
