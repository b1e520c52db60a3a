package session

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
)

// Pilot produces one player's raw input each tick. ok is false once the
// pilot has nothing more to say; the player then receives neutral frames.
type Pilot interface {
	Frame(g *Game, player core.PlayerID) (f input.RawFrame, ok bool)
}

// Idle never touches the controls.
type Idle struct{}

// Frame implements Pilot.
func (Idle) Frame(*Game, core.PlayerID) (input.RawFrame, bool) {
	return input.RawFrame{}, true
}

// TracePilot plays back recorded frames.
type TracePilot struct {
	frames []input.RawFrame
	pos    int
}

// NewTracePilot creates a pilot replaying the trace.
func NewTracePilot(t input.Trace) *TracePilot {
	return &TracePilot{frames: t.Frames()}
}

// Frame implements Pilot.
func (p *TracePilot) Frame(*Game, core.PlayerID) (input.RawFrame, bool) {
	if p.pos >= len(p.frames) {
		return input.RawFrame{}, false
	}
	f := p.frames[p.pos]
	p.pos++
	return f, true
}

// Bot defaults
const (
	DefaultBotSkill   = 0.7
	botAttackCooldown = 20 // Ticks between attack attempts
	botEdgeMargin     = 1.0
)

// Bot is a CPU opponent. It walks toward the other fighter, attacks in
// range, and heads back to the nearest ground when it is off the stage.
// Skill in [0, 1] scales how often it takes an opening.
type Bot struct {
	rng      *rand.Rand
	skill    float64
	cooldown int
}

// NewBot creates a bot with its own random source.
func NewBot(seed int64, skill float64) *Bot {
	return &Bot{
		rng:   rand.New(rand.NewSource(seed)),
		skill: core.ClampF(skill, 0, 1),
	}
}

// Frame implements Pilot.
func (b *Bot) Frame(g *Game, player core.PlayerID) (input.RawFrame, bool) {
	var f input.RawFrame
	me := g.Avatar(player)
	foe := g.Avatar(player.Other())
	if me == nil || foe == nil || !me.Enabled {
		return f, true
	}

	if b.cooldown > 0 {
		b.cooldown--
	}

	if x, over := b.groundUnder(g, me); !over {
		f.Move = core.V(core.Sign(x-me.Position.X), 0)
		if me.Grounded || me.Velocity.Y < 0 {
			f.Press(input.ButtonJump)
		}
		return f, true
	}

	dx := foe.Position.X - me.Position.X
	reach := g.tuning.AttackReach
	if me.Weapon == arena.WeaponShotgun {
		reach = g.tuning.ShotgunRange
	}

	switch {
	case math.Abs(dx) > reach*0.8:
		f.Move = core.V(core.Sign(dx), 0)
	case core.Sign(dx) != me.Facing && dx != 0:
		// Turn around with a soft tilt so it does not dash.
		f.Move = core.V(core.Sign(dx)*0.2, 0)
	case b.cooldown == 0 && b.rng.Float64() < b.skill:
		if me.Weapon == arena.WeaponShotgun {
			f.Press(input.ButtonShoot)
		} else {
			f.Press(input.ButtonAttack)
		}
		b.cooldown = botAttackCooldown
	}

	if foe.Position.Y-me.Position.Y > 1.5 && me.Grounded && b.rng.Float64() < b.skill/10 {
		f.Press(input.ButtonJump)
	}
	return f, true
}

// groundUnder returns the centre of the nearest floor and whether the
// avatar is already above one.
func (b *Bot) groundUnder(g *Game, a *arena.Avatar) (float64, bool) {
	best, bestDist := g.stage.Arena.Center().X, math.Inf(1)
	for _, fl := range g.stage.Floors {
		if a.Position.X >= fl.X+botEdgeMargin && a.Position.X <= fl.Right()-botEdgeMargin &&
			a.Position.Y >= fl.Top() {
			return 0, true
		}
		c := fl.Center().X
		if d := math.Abs(c - a.Position.X); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, false
}
