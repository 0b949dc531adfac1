package main

// Action is the tagged in-game action variant
type Action struct {
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Power float64 `json:"power,omitempty"`
}

const (
	ActionMove  = "move"
	ActionShoot = "shoot"
)

// RejectReason says why an operation had no effect. Rejections stay
// silent on the wire; the reason feeds logs, metrics, and tests.
type RejectReason string

const (
	RejectRoomNotFound   RejectReason = "room_not_found"
	RejectRoomFull       RejectReason = "room_full"
	RejectPlayerNotFound RejectReason = "player_not_found"
	RejectAlreadyInRoom  RejectReason = "already_in_room"
	RejectNotPlaying     RejectReason = "not_playing"
	RejectNotWaiting     RejectReason = "not_waiting"
	RejectNotHost        RejectReason = "not_host"
	RejectNotAllReady    RejectReason = "not_all_ready"
	RejectNotYourTurn    RejectReason = "not_your_turn"
	RejectBadAction      RejectReason = "bad_action"
	RejectRegistryFull   RejectReason = "registry_full"
)

// ActionResult is the discriminated outcome of a lobby or game operation
type ActionResult struct {
	Applied bool
	Reason  RejectReason
}

func applied() ActionResult                { return ActionResult{Applied: true} }
func rejected(r RejectReason) ActionResult { return ActionResult{Reason: r} }

// Actions validates and applies in-game player actions
type Actions struct {
	registry  *Registry
	metrics   *Metrics
	analytics *Analytics
}

// NewActions creates the action validator
func NewActions(registry *Registry, metrics *Metrics, analytics *Analytics) *Actions {
	return &Actions{registry: registry, metrics: metrics, analytics: analytics}
}

// Apply validates one action against the room and applies it. Accepted
// mutations broadcast a roomUpdate; rejections broadcast nothing.
func (a *Actions) Apply(roomID, playerID string, act Action) ActionResult {
	room, ok := a.registry.Get(roomID)
	if !ok {
		return a.done(rejected(RejectRoomNotFound))
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Status != RoomPlaying {
		return a.done(rejected(RejectNotPlaying))
	}
	idx := room.playerIndex(playerID)
	if idx < 0 {
		return a.done(rejected(RejectPlayerNotFound))
	}
	player := room.Players[idx]

	switch act.Type {
	case ActionMove:
		// Movement is not turn-gated; only shooting is.
		player.MoveTo(act.X, act.Y)

	case ActionShoot:
		if idx != room.TurnIndex {
			return a.done(rejected(RejectNotYourTurn))
		}
		proj := NewProjectile(player, act.Angle, act.Power)
		room.Projectiles = append(room.Projectiles, proj)
		// Turn advances unconditionally on acceptance, even with a
		// single player left in the room.
		room.TurnIndex = (room.TurnIndex + 1) % len(room.Players)
		if a.metrics != nil {
			a.metrics.IncShot()
		}
		if a.analytics != nil {
			a.analytics.Track(EvtShotFired, room.ID, playerID, "")
		}

	default:
		return a.done(rejected(RejectBadAction))
	}

	room.broadcastJSONLocked(Envelope{T: MsgRoomUpdate, Data: room.snapshotLocked(0)})
	return a.done(applied())
}

func (a *Actions) done(res ActionResult) ActionResult {
	if a.metrics != nil {
		if res.Applied {
			a.metrics.IncActionApplied()
		} else {
			a.metrics.IncActionRejected()
		}
	}
	return res
}
