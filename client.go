package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection. playerID is the opaque
// per-connection identifier the core uses for membership and turns.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string
	roomID     string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client with a fresh player identifier
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		playerID:   GenerateID(4),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Warnf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			Log.Warnf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks msgpack snapshot frames queued by SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		Log.Errorf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		Log.Warnf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgCreateRoom:
		c.handleCreateRoom(env.D)
	case MsgGetRooms:
		c.handleGetRooms()
	case MsgJoinRoom:
		c.handleJoinRoom(env.D)
	case MsgToggleReady:
		c.handleToggleReady(env.D)
	case MsgStartGame:
		c.handleStartGame(env.D)
	case MsgPlayerAction:
		c.handlePlayerAction(env.D)
	}
}

func (c *Client) handleCreateRoom(data json.RawMessage) {
	if c.roomID != "" {
		return // a player belongs to at most one room
	}
	var msg CreateRoomMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	room, res := c.hub.lobby.CreateRoom(
		cleanName(msg.RoomName, "Battle Room", maxRoomNameLen),
		c.playerID,
		cleanName(msg.PlayerName, "Gunner", maxNameLen),
		msg.MaxPlayers,
	)
	if !res.Applied {
		return
	}
	c.roomID = room.ID
	room.Subscribe(c.playerID, c)
	c.SendJSON(Envelope{T: MsgRoomCreated, Data: room.Snapshot()})
}

func (c *Client) handleGetRooms() {
	c.SendJSON(Envelope{T: MsgRoomsUpdate, Data: c.hub.registry.List()})
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	if c.roomID != "" {
		return
	}
	var msg JoinRoomMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	room, res := c.hub.lobby.JoinRoom(msg.RoomID, c.playerID, cleanName(msg.PlayerName, "Gunner", maxNameLen))
	if !res.Applied {
		return
	}
	c.roomID = room.ID
	room.Subscribe(c.playerID, c)
	c.SendJSON(Envelope{T: MsgRoomUpdate, Data: room.Snapshot()})
}

func (c *Client) handleToggleReady(data json.RawMessage) {
	var msg RoomRefMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.lobby.ToggleReady(msg.RoomID, c.playerID)
}

func (c *Client) handleStartGame(data json.RawMessage) {
	var msg RoomRefMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.lobby.StartGame(msg.RoomID, c.playerID)
}

func (c *Client) handlePlayerAction(data json.RawMessage) {
	var msg PlayerActionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.actions.Apply(msg.RoomID, c.playerID, msg.Action)
}

// cleanName applies the fallback and the length cap the transport
// enforces on client-supplied names
func cleanName(name, fallback string, max int) string {
	if name == "" {
		return fallback
	}
	if len(name) > max {
		return name[:max]
	}
	return name
}
