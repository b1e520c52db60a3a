package match

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/scene"
)

var testArena = core.NewRect(-10, -5, 20, 15)

type fixture struct {
	ctrl   *Controller
	reg    *arena.Registry
	p1, p2 *arena.Avatar
	spawns [core.PlayerCount]*motion.Platform
}

func newFixture(t *testing.T, cfg Config) fixture {
	t.Helper()
	reg := arena.NewRegistry()
	p1 := arena.NewAvatar(core.Player1, cfg.Lives, core.V(-3, 0))
	p2 := arena.NewAvatar(core.Player2, cfg.Lives, core.V(3, 0))
	if err := reg.Add(p1); err != nil {
		t.Fatalf("Add(p1) failed: %v", err)
	}
	if err := reg.Add(p2); err != nil {
		t.Fatalf("Add(p2) failed: %v", err)
	}

	still := motion.Config{}
	spawns := [core.PlayerCount]*motion.Platform{
		motion.NewPlatform(still, core.V(-4, 6), core.V(3, 0.5)),
		motion.NewPlatform(still, core.V(4, 6), core.V(3, 0.5)),
	}
	for _, s := range spawns {
		s.SetActive(false)
	}

	ctrl := New(cfg, reg, BoundariesAround(testArena, 5), spawns, 42, nil)
	return fixture{ctrl: ctrl, reg: reg, p1: p1, p2: p2, spawns: spawns}
}

// offRight returns an ECB collider for the avatar placed in the right blast zone.
func offRight(a *arena.Avatar) arena.Collider {
	a.Position = core.V(testArena.Right()+1, 0)
	return a.Collider()
}

func TestRingOutRespawnsWhileLivesRemain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 2
	f := newFixture(t, cfg)

	events := f.ctrl.OnTrigger(offRight(f.p1))

	expected := []Event{
		RingOutSplash{Player: core.Player1, Side: SideRight, Position: core.V(11, 0), Rotation: 90},
		LifeLost{Player: core.Player1, Remaining: 1},
		Respawned{Player: core.Player1, Position: core.V(-4, 6)},
	}
	if diff := cmp.Diff(expected, events); diff != "" {
		t.Errorf("OnTrigger() events mismatch (-want +got):\n%s", diff)
	}

	if f.ctrl.Ended() {
		t.Error("match should continue while lives remain")
	}
	if f.p1.Position != core.V(-4, 6) {
		t.Errorf("avatar at %v, expected on spawn platform", f.p1.Position)
	}
	if !f.spawns[core.Player1].Active() {
		t.Error("spawn platform should be activated on respawn")
	}
	if f.spawns[core.Player2].Active() {
		t.Error("other spawn platform should stay inactive")
	}
}

func TestRingOutAtZeroLivesEndsMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 1
	f := newFixture(t, cfg)
	f.p1.Velocity = core.V(4, 4)

	events := f.ctrl.OnTrigger(offRight(f.p2))

	expected := []Event{
		RingOutSplash{Player: core.Player2, Side: SideRight, Position: core.V(11, 0), Rotation: 90},
		LifeLost{Player: core.Player2, Remaining: 0},
		MatchEnded{Winner: core.Player1, Loser: core.Player2, Text: "Player 1 Wins!"},
	}
	if diff := cmp.Diff(expected, events); diff != "" {
		t.Errorf("OnTrigger() events mismatch (-want +got):\n%s", diff)
	}

	winner, ended := f.ctrl.Winner()
	if !ended || winner != core.Player1 {
		t.Errorf("Winner() = %v, %v; expected Player 1, true", winner, ended)
	}
	for _, a := range f.reg.Avatars() {
		if a.Enabled || !a.Velocity.IsZero() {
			t.Errorf("%s should be frozen after the match ends", a.Player)
		}
	}
	if f.p2.Respawns() != 0 {
		t.Error("loser must not respawn")
	}
}

func TestLivesCountdown(t *testing.T) {
	tests := []struct {
		name      string
		lives     int
		wantEnded bool
	}{
		{"one life left ends", 1, true},
		{"two lives respawns", 2, false},
		{"three lives respawns", 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Lives = tc.lives
			f := newFixture(t, cfg)
			f.ctrl.OnTrigger(offRight(f.p1))
			if f.ctrl.Ended() != tc.wantEnded {
				t.Errorf("Ended() = %v, expected %v", f.ctrl.Ended(), tc.wantEnded)
			}
		})
	}
}

func TestTriggerIgnoredAfterEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 1
	f := newFixture(t, cfg)
	f.ctrl.OnTrigger(offRight(f.p1))

	if events := f.ctrl.OnTrigger(offRight(f.p2)); events != nil {
		t.Errorf("OnTrigger() after end = %v, expected nil", events)
	}
	if f.p2.Lives != 1 {
		t.Errorf("p2 lives = %d, expected untouched", f.p2.Lives)
	}
}

func TestTriggerFiltersLayer(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	c := offRight(f.p1)
	c.Layer = arena.LayerHurtbox

	if events := f.ctrl.OnTrigger(c); events != nil {
		t.Errorf("OnTrigger() on wrong layer = %v, expected nil", events)
	}
	if f.p1.Lives != DefaultLives {
		t.Error("wrong-layer contact must not cost a life")
	}
}

func TestTriggerCornerSplashesTwice(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.p1.Position = core.V(testArena.Right()+1, testArena.Top()+1)

	events := f.ctrl.OnTrigger(f.p1.Collider())
	var sides []Side
	for _, e := range events {
		if s, ok := e.(RingOutSplash); ok {
			sides = append(sides, s.Side)
		}
	}
	if diff := cmp.Diff([]Side{SideTop, SideRight}, sides); diff != "" {
		t.Errorf("corner splashes mismatch (-want +got):\n%s", diff)
	}
}

func TestTriggerWithoutAvatarOnlySplashes(t *testing.T) {
	cfg := DefaultConfig()
	reg := arena.NewRegistry()
	ctrl := New(cfg, reg, BoundariesAround(testArena, 5), [core.PlayerCount]*motion.Platform{}, 1, nil)

	stray := arena.Collider{
		Layer:  arena.LayerECB,
		Owner:  core.Player2,
		Bounds: core.RectAround(core.V(0, testArena.Y-1), 1, 1),
	}
	events := ctrl.OnTrigger(stray)
	if len(events) != 1 {
		t.Fatalf("events = %v, expected a single splash", events)
	}
	if _, ok := events[0].(RingOutSplash); !ok {
		t.Errorf("event = %T, expected RingOutSplash", events[0])
	}
	if ctrl.Ended() {
		t.Error("unknown avatar must not end the match")
	}
}

func TestRespawnWithoutPlatformUsesSpawnRegion(t *testing.T) {
	cfg := DefaultConfig()
	reg := arena.NewRegistry()
	p1 := arena.NewAvatar(core.Player1, 3, core.V(0, 0))
	if err := reg.Add(p1); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	ctrl := New(cfg, reg, BoundariesAround(testArena, 5), [core.PlayerCount]*motion.Platform{}, 1, nil)

	ctrl.OnTrigger(offRight(p1))
	if p1.Position != cfg.SpawnRegion.Center() {
		t.Errorf("avatar at %v, expected spawn region centre %v", p1.Position, cfg.SpawnRegion.Center())
	}
}

func TestReturnToStageSelectAfterDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 1
	f := newFixture(t, cfg)
	f.ctrl.OnTrigger(offRight(f.p1))

	step := time.Second
	for i := range 2 {
		if res := f.ctrl.Update(step); !res.Scene.IsZero() {
			t.Fatalf("update %d: scene request %+v before delay elapsed", i, res.Scene)
		}
	}

	res := f.ctrl.Update(step)
	if res.Scene != scene.Load(scene.StageSelect) {
		t.Errorf("Scene = %+v, expected load of stage select", res.Scene)
	}

	if res := f.ctrl.Update(step); !res.Scene.IsZero() {
		t.Error("scene request must be sent once")
	}
}

func TestNoReturnWithoutScene(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 1
	cfg.ReturnScene = ""
	f := newFixture(t, cfg)
	f.ctrl.OnTrigger(offRight(f.p1))

	if res := f.ctrl.Update(10 * time.Second); !res.Scene.IsZero() {
		t.Errorf("Scene = %+v, expected none when return scene is empty", res.Scene)
	}
}

func TestPickupSpawnInterval(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	// Nothing can spawn before the minimum interval.
	if res := f.ctrl.Update(DefaultPickupIntervalMin - time.Millisecond); len(res.Events) != 0 {
		t.Fatalf("events before minimum interval: %v", res.Events)
	}
	if f.ctrl.Pickup() != nil {
		t.Fatal("pickup spawned too early")
	}

	var spawned []PickupSpawned
	for range 16 {
		res := f.ctrl.Update(time.Second)
		for _, e := range res.Events {
			if s, ok := e.(PickupSpawned); ok {
				spawned = append(spawned, s)
			}
		}
	}
	if len(spawned) != 1 {
		t.Fatalf("spawned %d pickups by the maximum interval, expected 1", len(spawned))
	}
	if !f.ctrl.Config().SpawnRegion.Contains(spawned[0].Position) {
		t.Errorf("pickup at %v outside spawn region", spawned[0].Position)
	}
}

func TestNoSecondPickupWhileActive(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	first, ok := f.ctrl.SpawnPickup()
	if !ok {
		t.Fatal("first SpawnPickup() should succeed")
	}

	// Many timer rolls later the original pickup is still the only one.
	for range 10 {
		res := f.ctrl.Update(DefaultPickupIntervalMax)
		if len(res.Events) != 0 {
			t.Fatalf("unexpected events while pickup active: %v", res.Events)
		}
	}
	if _, ok := f.ctrl.SpawnPickup(); ok {
		t.Error("SpawnPickup() should refuse while a pickup is active")
	}
	if f.ctrl.Pickup().Position != first.Position {
		t.Error("active pickup should not move")
	}
}

func TestNoPickupAfterMatchEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lives = 1
	cfg.ReturnScene = ""
	f := newFixture(t, cfg)
	f.ctrl.OnTrigger(offRight(f.p1))

	for range 10 {
		if res := f.ctrl.Update(DefaultPickupIntervalMax); len(res.Events) != 0 {
			t.Fatalf("events after match end: %v", res.Events)
		}
	}
	if f.ctrl.Pickup() != nil {
		t.Error("no pickup should spawn after the match ended")
	}
}

func TestPickupsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PickupsEnabled = false
	f := newFixture(t, cfg)

	for range 5 {
		f.ctrl.Update(DefaultPickupIntervalMax)
	}
	if f.ctrl.Pickup() != nil {
		t.Error("disabled pickups should never spawn")
	}
}

func TestPickupCollect(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	spawned, ok := f.ctrl.SpawnPickup()
	if !ok {
		t.Fatal("SpawnPickup() failed")
	}

	// A miss does nothing.
	f.p2.Position = core.V(100, 100)
	if events := f.ctrl.OnPickupContact(f.p2.Collider()); events != nil {
		t.Errorf("distant contact events = %v, expected nil", events)
	}

	f.p2.Position = spawned.Position
	events := f.ctrl.OnPickupContact(f.p2.Collider())
	expected := []Event{PickupCollected{Player: core.Player2, Weapon: arena.WeaponShotgun}}
	if diff := cmp.Diff(expected, events); diff != "" {
		t.Errorf("OnPickupContact() mismatch (-want +got):\n%s", diff)
	}
	if f.ctrl.Pickup() != nil {
		t.Error("pickup should be consumed")
	}
	if _, ok := f.ctrl.SpawnPickup(); !ok {
		t.Error("a new pickup may spawn once the old one is collected")
	}
}

func TestPickupContactIgnored(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f fixture)
	}{
		{"after match end", func(f fixture) { f.ctrl.OnTrigger(offRight(f.p1)) }},
		{"disabled avatar", func(f fixture) { f.p2.Enabled = false }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Lives = 1
			f := newFixture(t, cfg)
			spawned, ok := f.ctrl.SpawnPickup()
			if !ok {
				t.Fatal("SpawnPickup() failed")
			}
			tc.setup(f)

			f.p2.Position = spawned.Position
			if events := f.ctrl.OnPickupContact(f.p2.Collider()); events != nil {
				t.Errorf("OnPickupContact() = %v, expected nil", events)
			}
			if f.p2.Weapon != arena.WeaponFists {
				t.Errorf("Weapon = %v, expected %v", f.p2.Weapon, arena.WeaponFists)
			}
		})
	}
}

func TestPickupDeterministicForSeed(t *testing.T) {
	a := newFixture(t, DefaultConfig())
	b := newFixture(t, DefaultConfig())

	pa, _ := a.ctrl.SpawnPickup()
	pb, _ := b.ctrl.SpawnPickup()
	if pa != pb {
		t.Errorf("same seed produced %v and %v", pa.Position, pb.Position)
	}
}

func TestBoundariesAround(t *testing.T) {
	bs := BoundariesAround(core.NewRect(0, 0, 10, 10), 2)
	if len(bs) != 4 {
		t.Fatalf("len = %d, expected 4", len(bs))
	}

	probes := map[Side]core.Vec2{
		SideTop:    core.V(5, 11),
		SideBottom: core.V(5, -1),
		SideLeft:   core.V(-1, 5),
		SideRight:  core.V(11, 5),
	}
	for _, b := range bs {
		if !b.Region.Contains(probes[b.Side]) {
			t.Errorf("%s region %+v does not contain probe %v", b.Side, b.Region, probes[b.Side])
		}
		if b.Region.Contains(core.V(5, 5)) {
			t.Errorf("%s region overlaps the arena", b.Side)
		}
	}
}
