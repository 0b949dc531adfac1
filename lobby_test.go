package main

import (
	"sync"
	"testing"
)

// mockConn captures messages sent to one subscriber
type mockConn struct {
	mu     sync.Mutex
	json   []Envelope
	binary [][]byte
}

func (m *mockConn) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if env, ok := msg.(Envelope); ok {
		m.json = append(m.json, env)
	}
}

func (m *mockConn) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockConn) jsonTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.json))
	for _, env := range m.json {
		types = append(types, env.T)
	}
	return types
}

func (m *mockConn) lastJSON() (Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.json) == 0 {
		return Envelope{}, false
	}
	return m.json[len(m.json)-1], true
}

func (m *mockConn) binaryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.binary)
}

func newTestLobby() (*Lobby, *Registry) {
	reg := NewRegistry()
	return NewLobby(reg, nil, nil), reg
}

// readyRoom creates a room with n ready players and returns it with the
// host id. Player ids are p0..p(n-1), p0 is host.
func readyRoom(t *testing.T, l *Lobby, n int) *Room {
	t.Helper()
	room, res := l.CreateRoom("Test Room", "p0", "Gunner0", DefaultMaxPlayers)
	if !res.Applied {
		t.Fatalf("create room rejected: %s", res.Reason)
	}
	for i := 1; i < n; i++ {
		if _, res := l.JoinRoom(room.ID, playerN(i), "Gunner"+playerN(i)); !res.Applied {
			t.Fatalf("join %d rejected: %s", i, res.Reason)
		}
	}
	for i := 0; i < n; i++ {
		if res := l.ToggleReady(room.ID, playerN(i)); !res.Applied {
			t.Fatalf("ready %d rejected: %s", i, res.Reason)
		}
	}
	return room
}

func playerN(i int) string {
	return "p" + string(rune('0'+i))
}

func TestCreateRoomDefaults(t *testing.T) {
	l, reg := newTestLobby()
	room, res := l.CreateRoom("My Room", "host1", "Gunner", 0)
	if !res.Applied {
		t.Fatalf("create rejected: %s", res.Reason)
	}
	if room.MaxPlayers != DefaultMaxPlayers {
		t.Errorf("expected default max players %d, got %d", DefaultMaxPlayers, room.MaxPlayers)
	}
	if room.HostID != "host1" {
		t.Errorf("expected host host1, got %s", room.HostID)
	}
	if room.PlayerCount() != 1 {
		t.Errorf("host should be the first player, count %d", room.PlayerCount())
	}
	host := room.Players[0]
	if host.X != SpawnX || host.Y != SpawnY || host.HP != PlayerMaxHP || host.Ready {
		t.Errorf("host not at defaults: %+v", host)
	}
	if reg.Count() != 1 {
		t.Errorf("room should be registered")
	}
}

func TestJoinRoomCapacity(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner", 4)

	for i := 1; i < 4; i++ {
		if _, res := l.JoinRoom(room.ID, playerN(i), "Gunner"); !res.Applied {
			t.Fatalf("join %d should succeed", i)
		}
	}
	// The (maxPlayers+1)-th join is a no-op: room unchanged
	if _, res := l.JoinRoom(room.ID, "p9", "Late"); res.Applied || res.Reason != RejectRoomFull {
		t.Errorf("expected room_full rejection, got %+v", res)
	}
	if room.PlayerCount() != 4 {
		t.Errorf("player count must not exceed maxPlayers, got %d", room.PlayerCount())
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	l, _ := newTestLobby()
	if _, res := l.JoinRoom("missing", "p1", "Gunner"); res.Applied || res.Reason != RejectRoomNotFound {
		t.Errorf("expected room_not_found, got %+v", res)
	}
}

func TestJoinRoomDuplicatePlayer(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner", 4)
	if _, res := l.JoinRoom(room.ID, "p0", "Clone"); res.Applied {
		t.Error("re-joining with the same id should be rejected")
	}
}

func TestJoinOrderIsTurnOrder(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner0", 4)
	l.JoinRoom(room.ID, "p1", "Gunner1")
	l.JoinRoom(room.ID, "p2", "Gunner2")

	for i, want := range []string{"p0", "p1", "p2"} {
		if room.Players[i].ID != want {
			t.Errorf("slot %d: expected %s, got %s", i, want, room.Players[i].ID)
		}
	}
}

func TestToggleReady(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner", 4)

	l.ToggleReady(room.ID, "p0")
	if !room.Players[0].Ready {
		t.Error("expected ready after first toggle")
	}
	l.ToggleReady(room.ID, "p0")
	if room.Players[0].Ready {
		t.Error("expected not ready after second toggle")
	}

	if res := l.ToggleReady(room.ID, "ghost"); res.Applied {
		t.Error("toggle for unknown player should be a no-op")
	}
	if res := l.ToggleReady("missing", "p0"); res.Applied {
		t.Error("toggle for unknown room should be a no-op")
	}
}

func TestStartGamePreconditions(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner0", 4)
	l.JoinRoom(room.ID, "p1", "Gunner1")

	// Nobody ready
	if res := l.StartGame(room.ID, "p0"); res.Applied || res.Reason != RejectNotAllReady {
		t.Errorf("expected not_all_ready, got %+v", res)
	}
	l.ToggleReady(room.ID, "p0")
	l.ToggleReady(room.ID, "p1")

	// Not the host
	if res := l.StartGame(room.ID, "p1"); res.Applied || res.Reason != RejectNotHost {
		t.Errorf("expected not_host, got %+v", res)
	}
	if room.Status != RoomWaiting {
		t.Error("failed start must not change status")
	}

	if res := l.StartGame(room.ID, "p0"); !res.Applied {
		t.Fatalf("start rejected: %s", res.Reason)
	}
	if room.Status != RoomPlaying {
		t.Errorf("expected playing, got %s", room.Status)
	}
	if room.TurnIndex != 0 {
		t.Errorf("expected turn index 0, got %d", room.TurnIndex)
	}
	if room.Wind < -5 || room.Wind > 5 {
		t.Errorf("wind out of range: %v", room.Wind)
	}

	// Starting again is a no-op
	if res := l.StartGame(room.ID, "p0"); res.Applied || res.Reason != RejectNotWaiting {
		t.Errorf("expected not_waiting, got %+v", res)
	}
}

func TestStartGameBroadcastsDistinctEvent(t *testing.T) {
	l, _ := newTestLobby()
	room := readyRoom(t, l, 2)

	conn := &mockConn{}
	room.Subscribe("p0", conn)

	l.StartGame(room.ID, "p0")

	env, ok := conn.lastJSON()
	if !ok || env.T != MsgGameStarted {
		t.Fatalf("expected gameStarted event, got %+v", env)
	}
	snap, ok := env.Data.(RoomSnapshot)
	if !ok {
		t.Fatalf("expected RoomSnapshot payload, got %T", env.Data)
	}
	if snap.Status != string(RoomPlaying) || snap.TurnIndex != 0 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestDisconnectDeletesEmptyRoom(t *testing.T) {
	l, reg := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner", 4)

	l.HandleDisconnect("p0")
	if _, ok := reg.Get(room.ID); ok {
		t.Error("room with zero players must not persist")
	}
}

func TestDisconnectReassignsHost(t *testing.T) {
	l, _ := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner0", 4)
	l.JoinRoom(room.ID, "p1", "Gunner1")
	l.JoinRoom(room.ID, "p2", "Gunner2")

	l.HandleDisconnect("p0")
	if room.HostID != "p1" {
		t.Errorf("expected host reassigned to p1, got %s", room.HostID)
	}
	if room.PlayerCount() != 2 {
		t.Errorf("expected 2 players, got %d", room.PlayerCount())
	}
}

func TestDisconnectRenormalizesTurn(t *testing.T) {
	l, _ := newTestLobby()
	room := readyRoom(t, l, 3)
	l.StartGame(room.ID, "p0")

	// Put the turn on the last player, then drop them. The turn must
	// wrap to index 0 (mod new length).
	room.mu.Lock()
	room.TurnIndex = 2
	room.mu.Unlock()

	l.HandleDisconnect("p2")
	if room.TurnIndex != 0 {
		t.Errorf("expected turn index renormalized to 0, got %d", room.TurnIndex)
	}
	if n := room.PlayerCount(); n != 2 {
		t.Errorf("expected 2 players, got %d", n)
	}
}

func TestDisconnectUnknownPlayerIsNoop(t *testing.T) {
	l, reg := newTestLobby()
	room, _ := l.CreateRoom("Test Room", "p0", "Gunner", 4)

	l.HandleDisconnect("ghost")
	if _, ok := reg.Get(room.ID); !ok {
		t.Error("room should survive a stranger's disconnect")
	}
	if room.PlayerCount() != 1 {
		t.Errorf("expected 1 player, got %d", room.PlayerCount())
	}
}
