package session

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/config"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/registry"
)

func testStage() registry.Stage {
	return registry.Stage{
		ID:         "test",
		Title:      "Test",
		Arena:      core.NewRect(-12, -6, 24, 16),
		BlastDepth: 5,
		Floors:     []core.Rect{core.NewRect(-7, -1, 14, 1)},
		Spawns: [core.PlayerCount]registry.PlatformSpec{
			{Start: core.V(-4, 6), Size: core.V(3, 0.5)},
			{Start: core.V(4, 6), Size: core.V(3, 0.5)},
		},
		Starts:       [core.PlayerCount]core.Vec2{core.V(-3, 1), core.V(3, 1)},
		PickupRegion: core.NewRect(-5, 1, 10, 3),
	}
}

func newTestGame(t *testing.T, stage registry.Stage, lives int) *Game {
	t.Helper()
	cfg := config.DefaultConfig()
	bindings, err := cfg.Bindings()
	if err != nil {
		t.Fatalf("Bindings() failed: %v", err)
	}

	rules := cfg.Match.Rules(stage.PickupRegion)
	rules.Lives = lives
	rules.PickupsEnabled = false

	g, err := New(Options{
		Stage:    stage,
		Rules:    rules,
		Avatar:   cfg.Avatar,
		Bindings: bindings,
		Runtime:  core.RuntimeConfig{TickRate: 60, Seed: 7},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g
}

func frames(p1, p2 input.RawFrame) [core.PlayerCount]input.RawFrame {
	return [core.PlayerCount]input.RawFrame{p1, p2}
}

func pressed(b input.Button) input.RawFrame {
	var f input.RawFrame
	f.Press(b)
	return f
}

// runUntil steps until cond matches an event or limit ticks pass.
func runUntil(g *Game, in [core.PlayerCount]input.RawFrame, limit int, cond func(match.Event) bool) (StepResult, bool) {
	for range limit {
		res := g.Step(in)
		for _, e := range res.Events {
			if cond(e) {
				return res, true
			}
		}
	}
	return StepResult{}, false
}

func TestNewPlacesAvatars(t *testing.T) {
	g := newTestGame(t, testStage(), 3)

	p1, p2 := g.Avatar(core.Player1), g.Avatar(core.Player2)
	if p1.Position != core.V(-3, 1) || p2.Position != core.V(3, 1) {
		t.Errorf("positions = %v, %v; expected stage starts", p1.Position, p2.Position)
	}
	if p1.Facing != 1 || p2.Facing != -1 {
		t.Errorf("facing = %v, %v; expected fighters to face each other", p1.Facing, p2.Facing)
	}
	if len(g.Platforms()) != 0 {
		t.Error("spawn platforms should start hidden")
	}
	if g.Avatar(core.PlayerID(5)) != nil || g.Input(core.PlayerID(-1)) != nil {
		t.Error("invalid player lookups should return nil")
	}
}

func TestNewRejectsInvalidStage(t *testing.T) {
	stage := testStage()
	stage.BlastDepth = 0
	if _, err := New(Options{Stage: stage}); err == nil {
		t.Error("New() should reject an invalid stage")
	}
}

func TestIdleAvatarsRestOnFloor(t *testing.T) {
	g := newTestGame(t, testStage(), 3)

	for range 120 {
		res := g.Step(frames(input.RawFrame{}, input.RawFrame{}))
		if len(res.Events) != 0 {
			t.Fatalf("tick %d: unexpected events %v", res.Tick, res.Events)
		}
	}
	for _, a := range g.Avatars() {
		if !a.Grounded || math.Abs(a.Position.Y-1) > 1e-9 {
			t.Errorf("%s at %v grounded=%v, expected resting on the floor", a.Player, a.Position, a.Grounded)
		}
	}
	if g.Tick() != 120 {
		t.Errorf("Tick() = %d, expected 120", g.Tick())
	}
}

func TestWalkingOffStageRingsOut(t *testing.T) {
	g := newTestGame(t, testStage(), 3)
	left := input.RawFrame{Move: core.V(-1, 0)}

	res, ok := runUntil(g, frames(left, input.RawFrame{}), 600, func(e match.Event) bool {
		_, lost := e.(match.LifeLost)
		return lost
	})
	if !ok {
		t.Fatal("walking off the stage never cost a life")
	}

	var respawned bool
	for _, e := range res.Events {
		if r, ok := e.(match.Respawned); ok && r.Player == core.Player1 {
			respawned = true
		}
	}
	if !respawned {
		t.Fatalf("events %v, expected a respawn", res.Events)
	}

	p1 := g.Avatar(core.Player1)
	if p1.Lives != 2 {
		t.Errorf("Lives = %d, expected 2", p1.Lives)
	}
	if !p1.Grounded || p1.Position != core.V(-4, 7.25) {
		t.Errorf("avatar at %v grounded=%v, expected standing on the spawn platform", p1.Position, p1.Grounded)
	}
	if len(g.Platforms()) != 1 {
		t.Errorf("Platforms() = %d, expected the spawn platform", len(g.Platforms()))
	}
}

func TestSpawnPlatformExpires(t *testing.T) {
	g := newTestGame(t, testStage(), 3)
	left := input.RawFrame{Move: core.V(-1, 0)}

	if _, ok := runUntil(g, frames(left, input.RawFrame{}), 600, func(e match.Event) bool {
		_, r := e.(match.Respawned)
		return r
	}); !ok {
		t.Fatal("no respawn")
	}

	// Two seconds of hold at 60 ticks per second.
	for range 118 {
		g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	}
	if len(g.Platforms()) != 1 {
		t.Fatal("spawn platform vanished before the hold time")
	}
	for range 5 {
		g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	}
	if len(g.Platforms()) != 0 {
		t.Error("spawn platform should vanish after the hold time")
	}
	g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	if g.Avatar(core.Player1).Grounded {
		t.Error("avatar should fall once its spawn platform is gone")
	}
}

func TestLastLifeEndsMatch(t *testing.T) {
	g := newTestGame(t, testStage(), 1)
	right := input.RawFrame{Move: core.V(1, 0)}

	res, ok := runUntil(g, frames(input.RawFrame{}, right), 600, func(e match.Event) bool {
		_, ended := e.(match.MatchEnded)
		return ended
	})
	if !ok {
		t.Fatal("match never ended")
	}
	if !res.Ended {
		t.Error("StepResult.Ended should be set")
	}

	result := g.Result(uuid.Nil, EndReasonCompleted)
	if !result.HasWin || result.Winner != core.Player1 {
		t.Errorf("Result() winner = %v/%v, expected Player 1", result.Winner, result.HasWin)
	}
	if result.Lives != [core.PlayerCount]int{1, 0} {
		t.Errorf("Lives = %v, expected [1 0]", result.Lives)
	}

	// Frozen avatars ignore further input.
	before := g.Avatar(core.Player2).Position
	g.Step(frames(input.RawFrame{}, right))
	if g.Avatar(core.Player2).Position != before {
		t.Error("frozen avatar should not move")
	}
}

func TestReturnSceneAfterMatch(t *testing.T) {
	g := newTestGame(t, testStage(), 1)
	right := input.RawFrame{Move: core.V(1, 0)}
	if _, ok := runUntil(g, frames(input.RawFrame{}, right), 600, func(e match.Event) bool {
		_, ended := e.(match.MatchEnded)
		return ended
	}); !ok {
		t.Fatal("match never ended")
	}

	var requests int
	for range 4 * 60 {
		if res := g.Step(frames(input.RawFrame{}, input.RawFrame{})); !res.Scene.IsZero() {
			requests++
		}
	}
	if requests != 1 {
		t.Errorf("scene requests = %d, expected exactly one", requests)
	}
}

func closeStage() registry.Stage {
	s := testStage()
	s.Starts = [core.PlayerCount]core.Vec2{core.V(-0.5, 1), core.V(0.5, 1)}
	return s
}

func TestAttackKnocksBack(t *testing.T) {
	g := newTestGame(t, closeStage(), 3)

	res := g.Step(frames(pressed(input.ButtonAttack), input.RawFrame{}))
	if len(res.Hits) != 1 {
		t.Fatalf("Hits = %v, expected one", res.Hits)
	}
	hit := res.Hits[0]
	if hit.Attacker != core.Player1 || hit.Target != core.Player2 || hit.Blocked {
		t.Errorf("hit = %+v, expected unblocked Player 1 -> Player 2", hit)
	}

	p2 := g.Avatar(core.Player2)
	if p2.Velocity.X <= 0 || p2.Grounded {
		t.Errorf("target velocity %v grounded=%v, expected launched away", p2.Velocity, p2.Grounded)
	}

	// Holding attack does not hit again.
	res = g.Step(frames(pressed(input.ButtonAttack), input.RawFrame{}))
	if len(res.Hits) != 0 {
		t.Error("a held button should only attack once")
	}
}

func TestAttackFacingAway(t *testing.T) {
	g := newTestGame(t, closeStage(), 3)
	g.Avatar(core.Player1).Facing = -1

	res := g.Step(frames(pressed(input.ButtonAttack), input.RawFrame{}))
	if len(res.Hits) != 0 {
		t.Errorf("Hits = %v, expected a whiff when facing away", res.Hits)
	}
}

func TestDefendReducesKnockback(t *testing.T) {
	open := newTestGame(t, closeStage(), 3)
	open.Step(frames(pressed(input.ButtonAttack), input.RawFrame{}))
	full := open.Avatar(core.Player2).Velocity.X

	guarded := newTestGame(t, closeStage(), 3)
	res := guarded.Step(frames(pressed(input.ButtonAttack), pressed(input.ButtonDefend)))
	if len(res.Hits) != 1 || !res.Hits[0].Blocked {
		t.Fatalf("Hits = %v, expected one blocked hit", res.Hits)
	}
	if got := guarded.Avatar(core.Player2).Velocity.X; got >= full {
		t.Errorf("blocked knockback %v, expected less than %v", got, full)
	}
}

func TestShotgunOnlyWithPickup(t *testing.T) {
	g := newTestGame(t, testStage(), 3)
	// Four units apart: outside melee reach, inside shotgun range.
	g.Avatar(core.Player1).Position = core.V(-2, 1)
	g.Avatar(core.Player2).Position = core.V(2, 1)

	res := g.Step(frames(pressed(input.ButtonShoot), input.RawFrame{}))
	if len(res.Hits) != 0 {
		t.Fatal("shooting without the shotgun should do nothing")
	}

	g.Avatar(core.Player1).ChangeWeapon()
	g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	res = g.Step(frames(pressed(input.ButtonShoot), input.RawFrame{}))
	if len(res.Hits) != 1 || res.Hits[0].Weapon != arena.WeaponShotgun {
		t.Errorf("Hits = %v, expected a shotgun hit", res.Hits)
	}
}

func TestJump(t *testing.T) {
	g := newTestGame(t, testStage(), 3)

	g.Step(frames(pressed(input.ButtonJump), input.RawFrame{}))
	p1 := g.Avatar(core.Player1)
	if p1.Grounded || p1.Velocity.Y <= 0 || p1.Position.Y <= 1 {
		t.Fatalf("after jump: %v vel %v grounded=%v, expected rising", p1.Position, p1.Velocity, p1.Grounded)
	}

	// Lands again.
	for range 120 {
		g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	}
	if !p1.Grounded || math.Abs(p1.Position.Y-1) > 1e-9 {
		t.Errorf("after landing: %v grounded=%v, expected back on the floor", p1.Position, p1.Grounded)
	}
}

func TestPlatformCarriesRider(t *testing.T) {
	stage := testStage()
	stage.Platforms = []registry.PlatformSpec{
		{Motion: motion.DefaultConfig(), Start: core.V(0, 3), Size: core.V(3, 0.5)},
	}
	stage.Starts[core.Player1] = core.V(0, 4.25)
	g := newTestGame(t, stage, 3)

	for range 30 {
		g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	}

	p1 := g.Avatar(core.Player1)
	platform := g.Platforms()[0]
	if !p1.Grounded {
		t.Fatal("rider should stand on the platform")
	}
	if math.Abs(p1.Position.X-platform.Position().X) > 0.05 {
		t.Errorf("rider x = %v, platform x = %v; expected carried along", p1.Position.X, platform.Position().X)
	}
	if p1.Position.X <= 0.5 {
		t.Errorf("rider x = %v, expected to have moved", p1.Position.X)
	}
}

func TestPickupCollectedInPlay(t *testing.T) {
	g := newTestGame(t, testStage(), 3)
	spawned, ok := g.Controller().SpawnPickup()
	if !ok {
		t.Fatal("SpawnPickup() failed")
	}
	// Player 1 starts close to where seed 7 drops the pickup.
	g.Avatar(core.Player1).Position = core.V(6.5, 1)
	g.Avatar(core.Player2).Position = spawned.Position

	res := g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	var collected bool
	for _, e := range res.Events {
		if c, ok := e.(match.PickupCollected); ok && c.Player == core.Player2 {
			collected = true
		}
	}
	if !collected {
		t.Fatalf("events %v, expected Player 2 to collect the pickup", res.Events)
	}
	if g.Avatar(core.Player2).Weapon != arena.WeaponShotgun {
		t.Error("collector should hold the shotgun")
	}
}

func TestPickupBothTouchingSameTick(t *testing.T) {
	g := newTestGame(t, testStage(), 3)
	spawned, ok := g.Controller().SpawnPickup()
	if !ok {
		t.Fatal("SpawnPickup() failed")
	}
	g.Avatar(core.Player1).Position = spawned.Position
	g.Avatar(core.Player2).Position = spawned.Position

	res := g.Step(frames(input.RawFrame{}, input.RawFrame{}))
	var collectors []core.PlayerID
	for _, e := range res.Events {
		if c, ok := e.(match.PickupCollected); ok {
			collectors = append(collectors, c.Player)
		}
	}
	if len(collectors) != 1 || collectors[0] != core.Player1 {
		t.Fatalf("collectors = %v, expected only Player 1", collectors)
	}
	if g.Avatar(core.Player2).Weapon != arena.WeaponFists {
		t.Error("Player 2 should keep its fists")
	}
	if g.Controller().Pickup() != nil {
		t.Error("pickup should be consumed")
	}
}

func TestNewForStage(t *testing.T) {
	if !registry.Exists("test") {
		registry.Register("test", testStage)
	}
	cfg := config.DefaultConfig()
	cfg.Match.Lives = 5

	g, err := NewForStage("test", cfg, core.RuntimeConfig{TickRate: 60, Seed: 1}, nil)
	if err != nil {
		t.Fatalf("NewForStage() failed: %v", err)
	}
	if g.Stage().ID != "test" || g.Avatar(core.Player1).Lives != 5 {
		t.Errorf("game = %s with %d lives, expected test with 5", g.Stage().ID, g.Avatar(core.Player1).Lives)
	}

	if _, err := NewForStage("missing", cfg, core.RuntimeConfig{TickRate: 60}, nil); err == nil {
		t.Error("unknown stage should fail")
	}

	cfg.Players = cfg.Players[:1]
	if _, err := NewForStage("test", cfg, core.RuntimeConfig{TickRate: 60}, nil); err == nil {
		t.Error("missing player bindings should fail")
	}
}
