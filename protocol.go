package main

import "encoding/json"

// Client -> Server message types
const (
	MsgCreateRoom   = "createRoom"
	MsgGetRooms     = "getRooms"
	MsgJoinRoom     = "joinRoom"
	MsgToggleReady  = "toggleReady"
	MsgStartGame    = "startGame"
	MsgPlayerAction = "playerAction"
)

// Server -> Client message types
const (
	MsgRoomCreated = "roomCreated" // to the creator only
	MsgRoomsUpdate = "roomsUpdate" // to all connected clients
	MsgRoomUpdate  = "roomUpdate"  // to subscribers of one room
	MsgGameStarted = "gameStarted" // to subscribers, distinct from roomUpdate
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateRoomMsg asks for a new room with the sender as host
type CreateRoomMsg struct {
	RoomName   string `json:"roomName"`
	PlayerName string `json:"playerName"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
}

// JoinRoomMsg asks to join an existing room
type JoinRoomMsg struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// RoomRefMsg carries just a room reference (toggleReady, startGame)
type RoomRefMsg struct {
	RoomID string `json:"roomId"`
}

// PlayerActionMsg carries an in-game action
type PlayerActionMsg struct {
	RoomID string `json:"roomId"`
	Action Action `json:"action"`
}

// PlayerState is broadcast per player in each snapshot
type PlayerState struct {
	ID    string  `json:"id"`
	Name  string  `json:"n"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	Ready bool    `json:"r"`
}

// ProjectileState is broadcast per projectile in each snapshot
type ProjectileState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Owner string  `json:"o"`
}

// RoomSnapshot is the full room state. It rides as a JSON roomUpdate
// after accepted actions and as a msgpack binary frame on every tick.
type RoomSnapshot struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	HostID      string            `json:"host"`
	Status      string            `json:"status"`
	MaxPlayers  int               `json:"max"`
	TurnIndex   int               `json:"turn"`
	Wind        float64           `json:"wind"`
	Players     []PlayerState     `json:"p"`
	Projectiles []ProjectileState `json:"pr"`
	Tick        uint64            `json:"tick,omitempty"`
}

// RoomSummary is used in the room list
type RoomSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Status     string `json:"status"`
}
