package main

import "math"

const (
	Gravity          = 9.8
	HitRadius        = 30.0
	ProjectileDamage = 20
)

// Projectile represents a shell in flight. Position is unbounded while
// airborne; expiry is checked against the playfield each tick.
type Projectile struct {
	ID      string
	OwnerID string
	X, Y    float64
	VX, VY  float64
	Gravity float64
	Hit     bool
	Remove  bool
}

// NewProjectile creates a shell at the shooter's position. Angle is in
// degrees, power scales the initial velocity.
func NewProjectile(owner *Player, angle, power float64) *Projectile {
	rad := angle * math.Pi / 180
	return &Projectile{
		ID:      GenerateID(3),
		OwnerID: owner.ID,
		X:       owner.X,
		Y:       owner.Y,
		VX:      power * math.Cos(rad),
		VY:      power * math.Sin(rad),
		Gravity: Gravity,
	}
}

// Advance integrates one tick of semi-implicit Euler at the given tick
// rate: gravity folds into vertical velocity first, then position moves
// with the updated velocity. Trajectories are rate-locked on purpose, so
// the rate is threaded in rather than baked into the formulas.
func (pr *Projectile) Advance(rate float64) {
	pr.VY += pr.Gravity / rate
	pr.X += pr.VX / rate
	pr.Y += pr.VY / rate
}

// OutOfBounds reports whether the shell has left the playfield
func (pr *Projectile) OutOfBounds() bool {
	return pr.Y > WorldHeight || pr.X < 0 || pr.X > WorldWidth
}

// ToState converts to protocol state
func (pr *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:    pr.ID,
		X:     pr.X,
		Y:     pr.Y,
		VX:    pr.VX,
		VY:    pr.VY,
		Owner: pr.OwnerID,
	}
}
