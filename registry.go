package main

import (
	"sync"

	"github.com/google/uuid"
)

const maxRooms = 100

// Registry owns every live room. It is the single repository the lobby,
// the action validator, and the tick engine share; rooms leave it only
// through Delete.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create allocates a room under a fresh UUID. Returns nil if the room
// limit is reached. UUIDs keep concurrent creations collision-free; a
// timestamp-derived key would collide for two creations in one tick.
func (reg *Registry) Create(name string, maxPlayers int) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.rooms) >= maxRooms {
		return nil
	}
	id := uuid.NewString()
	room := NewRoom(id, name, maxPlayers)
	reg.rooms[id] = room
	return room
}

// Get returns a room by ID
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// Delete removes a room from the registry
func (reg *Registry) Delete(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// Count returns the number of live rooms
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// List returns summaries of all rooms. It reflects registry membership
// only; per-room state is read through each room's own lock.
func (reg *Registry) List() []RoomSummary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	list := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		list = append(list, r.Summary())
	}
	return list
}

// ForEach calls fn for every room without holding the registry lock
// during the callback, so fn may take room locks or delete rooms.
func (reg *Registry) ForEach(fn func(*Room)) {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	for _, r := range rooms {
		fn(r)
	}
}
