package main

import (
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// RoomStatus is the lifecycle state of a room
type RoomStatus string

const (
	RoomWaiting RoomStatus = "waiting"
	RoomPlaying RoomStatus = "playing"
)

// Broadcaster delivers messages to one subscribed connection
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Room holds one game session. Players is ordered: the slice order is
// the turn order. All mutation runs under mu; an action or a tick owns
// the room for its full read-modify-write.
type Room struct {
	ID         string
	Name       string
	HostID     string
	MaxPlayers int
	Status     RoomStatus

	Players     []*Player
	Projectiles []*Projectile
	TurnIndex   int
	Wind        float64
	CreatedAt   time.Time

	mu   sync.Mutex
	subs map[string]Broadcaster
}

// NewRoom creates an empty room in waiting status
func NewRoom(id, name string, maxPlayers int) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		MaxPlayers: maxPlayers,
		Status:     RoomWaiting,
		CreatedAt:  time.Now(),
		subs:       make(map[string]Broadcaster),
	}
}

// Subscribe attaches a connection to the room's broadcast set
func (r *Room) Subscribe(playerID string, b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[playerID] = b
}

// Unsubscribe detaches a connection
func (r *Room) Unsubscribe(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, playerID)
}

// PlayerCount returns the number of players in the room
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Players)
}

// HasPlayer reports whether the player is a member of the room
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerIndex(playerID) >= 0
}

// Snapshot builds the full room state under the lock
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(0)
}

// Summary builds the room-list entry
func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSummary{
		ID:         r.ID,
		Name:       r.Name,
		Players:    len(r.Players),
		MaxPlayers: r.MaxPlayers,
		Status:     string(r.Status),
	}
}

// playerIndex returns the slice index of a player, or -1. Callers hold mu.
func (r *Room) playerIndex(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// normalizeTurnLocked re-establishes 0 <= TurnIndex < len(Players) after
// a removal. If the departing player owned the turn, whoever now sits at
// that index (mod the new length) takes it.
func (r *Room) normalizeTurnLocked() {
	if len(r.Players) == 0 {
		r.TurnIndex = 0
		return
	}
	r.TurnIndex %= len(r.Players)
}

func (r *Room) snapshotLocked(tick uint64) RoomSnapshot {
	snap := RoomSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		HostID:      r.HostID,
		Status:      string(r.Status),
		MaxPlayers:  r.MaxPlayers,
		TurnIndex:   r.TurnIndex,
		Wind:        r.Wind,
		Players:     make([]PlayerState, 0, len(r.Players)),
		Projectiles: make([]ProjectileState, 0, len(r.Projectiles)),
		Tick:        tick,
	}
	for _, p := range r.Players {
		snap.Players = append(snap.Players, p.ToState())
	}
	for _, pr := range r.Projectiles {
		snap.Projectiles = append(snap.Projectiles, pr.ToState())
	}
	return snap
}

// broadcastJSONLocked sends an envelope to every subscriber. Subscriber
// sends are non-blocking, so holding mu here is safe.
func (r *Room) broadcastJSONLocked(env Envelope) {
	for _, sub := range r.subs {
		sub.SendJSON(env)
	}
}

// broadcastSnapshotLocked sends the current state as a msgpack binary frame
func (r *Room) broadcastSnapshotLocked(tick uint64) {
	if len(r.subs) == 0 {
		return
	}
	data, err := msgpack.Marshal(r.snapshotLocked(tick))
	if err != nil {
		Log.Errorf("snapshot marshal: %v", err)
		return
	}
	for _, sub := range r.subs {
		sub.SendBinary(data)
	}
}

// BroadcastUpdate sends a JSON roomUpdate with the current state
func (r *Room) BroadcastUpdate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastJSONLocked(Envelope{T: MsgRoomUpdate, Data: r.snapshotLocked(0)})
}
