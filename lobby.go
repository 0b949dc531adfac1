package main

import "math/rand"

const (
	DefaultMaxPlayers = 4
	maxPlayersPerRoom = 8
	maxNameLen        = 16
	maxRoomNameLen    = 30
)

// Announcer delivers a message to every connected client
type Announcer interface {
	BroadcastAll(msg interface{})
}

// Lobby drives room lifecycle and the ready/start handshake. Every
// operation on a missing room or player is a wire-silent no-op; the
// returned ActionResult carries the reason for tests and logs.
type Lobby struct {
	registry  *Registry
	announce  Announcer
	analytics *Analytics
}

// NewLobby creates the lifecycle controller
func NewLobby(registry *Registry, announce Announcer, analytics *Analytics) *Lobby {
	return &Lobby{registry: registry, announce: announce, analytics: analytics}
}

// CreateRoom allocates a waiting room with the caller as host and first
// player. maxPlayers defaults to 4 and is capped.
func (l *Lobby) CreateRoom(roomName, playerID, playerName string, maxPlayers int) (*Room, ActionResult) {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	if maxPlayers > maxPlayersPerRoom {
		maxPlayers = maxPlayersPerRoom
	}

	room := l.registry.Create(roomName, maxPlayers)
	if room == nil {
		return nil, rejected(RejectRegistryFull)
	}

	host := NewPlayer(playerID, playerName)
	room.mu.Lock()
	room.Players = append(room.Players, host)
	room.HostID = playerID
	room.mu.Unlock()

	Log.Infow("room created", "room", room.ID, "name", roomName, "host", playerID)
	if l.analytics != nil {
		l.analytics.Track(EvtRoomCreated, room.ID, playerID, "")
	}
	l.announceRooms()
	return room, applied()
}

// JoinRoom appends a player to the room's ordered list. The append
// position fixes the player's slot in the turn order.
func (l *Lobby) JoinRoom(roomID, playerID, playerName string) (*Room, ActionResult) {
	room, ok := l.registry.Get(roomID)
	if !ok {
		return nil, rejected(RejectRoomNotFound)
	}

	room.mu.Lock()
	if len(room.Players) >= room.MaxPlayers {
		room.mu.Unlock()
		return nil, rejected(RejectRoomFull)
	}
	if room.playerIndex(playerID) >= 0 {
		room.mu.Unlock()
		return nil, rejected(RejectAlreadyInRoom)
	}
	room.Players = append(room.Players, NewPlayer(playerID, playerName))
	room.broadcastJSONLocked(Envelope{T: MsgRoomUpdate, Data: room.snapshotLocked(0)})
	room.mu.Unlock()

	Log.Infow("player joined", "room", roomID, "player", playerID)
	if l.analytics != nil {
		l.analytics.Track(EvtPlayerJoined, roomID, playerID, "")
	}
	l.announceRooms()
	return room, applied()
}

// ToggleReady flips the ready flag of the identified player
func (l *Lobby) ToggleReady(roomID, playerID string) ActionResult {
	room, ok := l.registry.Get(roomID)
	if !ok {
		return rejected(RejectRoomNotFound)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	idx := room.playerIndex(playerID)
	if idx < 0 {
		return rejected(RejectPlayerNotFound)
	}
	room.Players[idx].Ready = !room.Players[idx].Ready
	room.broadcastJSONLocked(Envelope{T: MsgRoomUpdate, Data: room.snapshotLocked(0)})
	return applied()
}

// StartGame transitions waiting -> playing when the requester is host
// and every player is ready. Turn index resets to 0 and a fresh wind
// value is drawn. The transition broadcasts gameStarted, which
// subscribers can tell apart from ordinary roomUpdates.
func (l *Lobby) StartGame(roomID, playerID string) ActionResult {
	room, ok := l.registry.Get(roomID)
	if !ok {
		return rejected(RejectRoomNotFound)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Status != RoomWaiting {
		return rejected(RejectNotWaiting)
	}
	if room.HostID != playerID {
		return rejected(RejectNotHost)
	}
	for _, p := range room.Players {
		if !p.Ready {
			return rejected(RejectNotAllReady)
		}
	}

	room.Status = RoomPlaying
	room.TurnIndex = 0
	room.Wind = rand.Float64()*10 - 5 // uniform in [-5,5], fixed for the game

	Log.Infow("game started", "room", roomID, "players", len(room.Players), "wind", room.Wind)
	if l.analytics != nil {
		l.analytics.Track(EvtGameStarted, roomID, playerID, "")
	}
	room.broadcastJSONLocked(Envelope{T: MsgGameStarted, Data: room.snapshotLocked(0)})
	return applied()
}

// HandleDisconnect removes the player from whichever room holds them.
// The hub calls this exactly once per dropped connection. An emptied
// room is deleted; otherwise host and turn index are re-established.
func (l *Lobby) HandleDisconnect(playerID string) {
	l.registry.ForEach(func(room *Room) {
		room.mu.Lock()

		idx := room.playerIndex(playerID)
		if idx < 0 {
			room.mu.Unlock()
			return
		}
		room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
		delete(room.subs, playerID)

		if len(room.Players) == 0 {
			room.mu.Unlock()
			l.registry.Delete(room.ID)
			Log.Infow("room closed", "room", room.ID)
			if l.analytics != nil {
				l.analytics.Track(EvtRoomClosed, room.ID, playerID, "")
			}
			l.announceRooms()
			return
		}

		if room.HostID == playerID {
			room.HostID = room.Players[0].ID
		}
		room.normalizeTurnLocked()
		room.broadcastJSONLocked(Envelope{T: MsgRoomUpdate, Data: room.snapshotLocked(0)})
		room.mu.Unlock()

		Log.Infow("player left", "room", room.ID, "player", playerID)
		if l.analytics != nil {
			l.analytics.Track(EvtPlayerLeft, room.ID, playerID, "")
		}
		l.announceRooms()
	})
}

// announceRooms pushes the room list to every connected client
func (l *Lobby) announceRooms() {
	if l.announce == nil {
		return
	}
	l.announce.BroadcastAll(Envelope{T: MsgRoomsUpdate, Data: l.registry.List()})
}
