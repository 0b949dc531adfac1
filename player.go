package main

const (
	PlayerMaxHP = 100
	SpawnX      = 100.0
	SpawnY      = 100.0
	WorldWidth  = 800.0
	WorldHeight = 600.0
)

// Player represents a player inside a room. The ID is the opaque
// per-connection identifier assigned by the transport.
type Player struct {
	ID    string
	Name  string
	X, Y  float64
	HP    int
	Ready bool
}

// NewPlayer creates a player at the fixed spawn position
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		X:    SpawnX,
		Y:    SpawnY,
		HP:   PlayerMaxHP,
	}
}

// MoveTo assigns a new position, clamped to the playfield.
// Out-of-range coordinates are clamped, never rejected.
func (p *Player) MoveTo(x, y float64) {
	p.X = Clamp(x, 0, WorldWidth)
	p.Y = Clamp(y, 0, WorldHeight)
}

// TakeDamage reduces HP. There is no floor: HP may go negative and no
// defeat transition exists.
func (p *Player) TakeDamage(dmg int) {
	p.HP -= dmg
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     p.X,
		Y:     p.Y,
		HP:    p.HP,
		Ready: p.Ready,
	}
}
