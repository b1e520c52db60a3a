package arena

import (
	"testing"

	"github.com/vovakirdan/ringout/internal/core"
)

func TestRegistryAddAndResolve(t *testing.T) {
	r := NewRegistry()
	p1 := NewAvatar(core.Player1, 3, core.V(0, 0))
	p2 := NewAvatar(core.Player2, 3, core.V(5, 0))

	if err := r.Add(p2); err != nil {
		t.Fatalf("Add(p2) failed: %v", err)
	}
	if err := r.Add(p1); err != nil {
		t.Fatalf("Add(p1) failed: %v", err)
	}
	if err := r.Add(NewAvatar(core.Player1, 3, core.V(0, 0))); err == nil {
		t.Error("registering a player twice should fail")
	}
	if err := r.Add(nil); err == nil {
		t.Error("registering nil should fail")
	}
	if err := r.Add(NewAvatar(core.PlayerID(7), 3, core.V(0, 0))); err == nil {
		t.Error("registering an invalid player should fail")
	}

	if got := r.OwnerOf(p2.Collider()); got != p2 {
		t.Errorf("OwnerOf() = %v, expected player 2", got)
	}
	all := r.Avatars()
	if len(all) != 2 || all[0] != p1 || all[1] != p2 {
		t.Errorf("Avatars() should be ordered by player, got %v", all)
	}
}

func TestRegistryMissingAvatar(t *testing.T) {
	r := NewRegistry()
	if r.Avatar(core.Player1) != nil {
		t.Error("empty registry should return nil")
	}
	if r.OwnerOf(Collider{Owner: core.Player2}) != nil {
		t.Error("unknown owner should resolve to nil")
	}
}

func TestAvatarLifecycle(t *testing.T) {
	a := NewAvatar(core.Player1, 2, core.V(1, 1))
	a.Velocity = core.V(3, 4)
	a.ChangeWeapon()

	if a.Weapon != WeaponShotgun {
		t.Errorf("Weapon = %s, expected Shotgun", a.Weapon)
	}

	a.Respawn(core.V(10, 5))
	if a.Position != core.V(10, 5) || !a.Velocity.IsZero() {
		t.Errorf("Respawn() left position %v velocity %v", a.Position, a.Velocity)
	}
	if a.Respawns() != 1 {
		t.Errorf("Respawns() = %d, expected 1", a.Respawns())
	}

	a.Velocity = core.V(1, 0)
	a.Angular = 2
	a.Freeze()
	if a.Enabled || !a.Velocity.IsZero() || a.Angular != 0 {
		t.Error("Freeze() should disable and stop the avatar")
	}
}

func TestColliderTouching(t *testing.T) {
	a := NewAvatar(core.Player1, 3, core.V(0, 0))
	c := a.Collider()
	if c.Layer != LayerECB {
		t.Errorf("Layer = %d, expected ECB", c.Layer)
	}
	if !c.Touching(core.NewRect(0, 0, 5, 5)) {
		t.Error("collider should touch an overlapping region")
	}
	if c.Touching(core.NewRect(10, 10, 5, 5)) {
		t.Error("collider should not touch a distant region")
	}
}

func TestPickupBounds(t *testing.T) {
	p := NewPickup(core.V(2, 2))
	if !p.Active {
		t.Error("new pickup should be active")
	}
	if b := p.Bounds(); b.Center() != core.V(2, 2) {
		t.Errorf("Bounds().Center() = %v, expected (2, 2)", b.Center())
	}
}
