// Package arena holds the entities a match operates on and the explicit
// registry used to resolve colliders back to their owners.
package arena

import (
	"github.com/vovakirdan/ringout/internal/core"
)

// Layer is a collision category. Triggers filter contacts by layer.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerECB           // Environment collision box; the body that rings out
	LayerHurtbox
	LayerPickup
)

// Weapon is what an avatar currently wields.
type Weapon int

const (
	WeaponFists Weapon = iota
	WeaponShotgun
)

// String returns a display name for the weapon.
func (w Weapon) String() string {
	switch w {
	case WeaponFists:
		return "Fists"
	case WeaponShotgun:
		return "Shotgun"
	default:
		return "Unknown"
	}
}

// Avatar is a player-controlled fighter.
type Avatar struct {
	Player   core.PlayerID
	Lives    int
	Weapon   Weapon
	Enabled  bool
	Position core.Vec2
	Velocity core.Vec2
	Angular  float64
	Size     core.Vec2
	Facing   float64 // -1 left, +1 right

	Grounded bool
	respawns int
}

// NewAvatar creates an enabled avatar at pos.
func NewAvatar(player core.PlayerID, lives int, pos core.Vec2) *Avatar {
	return &Avatar{
		Player:   player,
		Lives:    lives,
		Enabled:  true,
		Position: pos,
		Size:     core.V(1, 2),
		Facing:   1,
	}
}

// Bounds returns the avatar's ECB in arena space.
func (a *Avatar) Bounds() core.Rect {
	return core.RectAround(a.Position, a.Size.X, a.Size.Y)
}

// Collider returns the avatar's ECB collider.
func (a *Avatar) Collider() Collider {
	return Collider{Layer: LayerECB, Owner: a.Player, Bounds: a.Bounds()}
}

// Respawn places the avatar at pos at rest.
func (a *Avatar) Respawn(pos core.Vec2) {
	a.Position = pos
	a.Velocity = core.Vec2{}
	a.Angular = 0
	a.Grounded = false
	a.respawns++
}

// Respawns returns how many times the avatar has respawned.
func (a *Avatar) Respawns() int {
	return a.respawns
}

// ChangeWeapon equips the pickup weapon.
func (a *Avatar) ChangeWeapon() {
	a.Weapon = WeaponShotgun
}

// Freeze disables control and stops all motion.
func (a *Avatar) Freeze() {
	a.Enabled = false
	a.Velocity = core.Vec2{}
	a.Angular = 0
}

// Collider is a trigger-relevant body.
type Collider struct {
	Layer  Layer
	Owner  core.PlayerID
	Bounds core.Rect
}

// Touching reports whether two boxes overlap.
func (c Collider) Touching(r core.Rect) bool {
	return c.Bounds.Intersects(r)
}

// Pickup is a collectable weapon item.
type Pickup struct {
	Position core.Vec2
	Size     core.Vec2
	Active   bool
}

// NewPickup creates an active pickup at pos.
func NewPickup(pos core.Vec2) *Pickup {
	return &Pickup{Position: pos, Size: core.V(1, 1), Active: true}
}

// Bounds returns the pickup's trigger box.
func (p *Pickup) Bounds() core.Rect {
	return core.RectAround(p.Position, p.Size.X, p.Size.Y)
}
