package session

import (
	"math"
	"time"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/motion"
)

// Movement constants not exposed in the config file
const (
	dashDuration  = 150 * time.Millisecond
	softTiltScale = 0.5  // Share of run speed at soft tilt
	landTolerance = 0.25 // How far below a surface top feet may sink and still land
	hitHeight     = 1.5  // Max vertical distance between fighters for a hit
	defendScale   = 0.25 // Knockback share taken while defending on the ground
	launchAngle   = 0.5  // Vertical share of knockback
)

// Hit describes a landed attack.
type Hit struct {
	Attacker core.PlayerID
	Target   core.PlayerID
	Weapon   arena.Weapon
	Blocked  bool
}

// control turns this tick's input into avatar velocity.
func (g *Game) control(i int) {
	a, in, t := g.avatars[i], g.inputs[i], g.tuning
	move := in.MoveAxes()

	target := 0.0
	switch move.Direction {
	case input.DirLeft, input.DirRight:
		target = core.Sign(move.X) * t.RunSpeed
		if !move.IsFullTilt() {
			target *= softTiltScale
		}
		a.Facing = core.Sign(move.X)
	}

	if g.dashLeft[i] > 0 {
		g.dashLeft[i] -= g.dt
	} else if a.Grounded {
		a.Velocity.X = target
	} else if target != 0 {
		a.Velocity.X += (target - a.Velocity.X) * t.AirControl
	}

	if move.IsTapInput {
		switch move.Direction {
		case input.DirLeft, input.DirRight:
			if a.Grounded {
				a.Velocity.X = a.Facing * t.DashSpeed
				g.dashLeft[i] = dashDuration
			}
		case input.DirUp:
			g.jump(i)
		case input.DirDown:
			if !a.Grounded {
				a.Velocity.Y = -t.MaxFallSpeed
			}
		}
	}

	if in.ButtonDown(input.ButtonJump) {
		g.jump(i)
	}
}

func (g *Game) jump(i int) {
	a := g.avatars[i]
	if !a.Grounded {
		return
	}
	a.Velocity.Y = g.tuning.JumpImpulse
	a.Grounded = false
	g.riding[i] = nil
}

// resolveAttacks applies melee and shotgun hits for this tick. Both players'
// attacks are evaluated before any knockback is applied.
func (g *Game) resolveAttacks() []Hit {
	var hits []Hit
	var pending [core.PlayerCount]core.Vec2

	for i, a := range g.avatars {
		if !a.Enabled {
			continue
		}
		in := g.inputs[i]
		target := g.avatars[a.Player.Other()]
		if !target.Enabled {
			continue
		}

		var reach, force float64
		switch {
		case in.ButtonDown(input.ButtonShoot) && a.Weapon == arena.WeaponShotgun:
			reach, force = g.tuning.ShotgunRange, g.tuning.ShotgunKnockback
		case in.ButtonDown(input.ButtonAttack):
			reach, force = g.tuning.AttackReach, g.tuning.Knockback
		default:
			continue
		}

		if !inFront(a, target, reach) {
			continue
		}

		hit := Hit{Attacker: a.Player, Target: target.Player, Weapon: a.Weapon}
		if target.Grounded && g.inputs[target.Player].ButtonHeld(input.ButtonDefend) {
			force *= defendScale
			hit.Blocked = true
		}
		pending[target.Player] = pending[target.Player].Add(core.V(a.Facing*force, force*launchAngle))
		hits = append(hits, hit)
	}

	for id, kb := range pending {
		if kb.IsZero() {
			continue
		}
		t := g.avatars[id]
		t.Velocity = kb
		t.Grounded = false
		g.riding[id] = nil
		g.dashLeft[id] = 0
	}
	return hits
}

// inFront reports whether target is within reach on a's facing side.
func inFront(a, target *arena.Avatar, reach float64) bool {
	dx := (target.Position.X - a.Position.X) * a.Facing
	dy := math.Abs(target.Position.Y - a.Position.Y)
	return dx >= 0 && dx <= reach && dy <= hitHeight
}

// integrate applies gravity, platform carry and movement, then lands the
// avatar on the first surface it crossed from above.
func (g *Game) integrate(i int) {
	a, t := g.avatars[i], g.tuning
	secs := g.dt.Seconds()

	a.Velocity.Y = math.Max(a.Velocity.Y-t.Gravity*secs, -t.MaxFallSpeed)

	step := a.Velocity
	if p := g.riding[i]; p != nil && p.Active() {
		step = p.Carry(step)
	}

	prevFeet := a.Bounds().Y
	a.Position = a.Position.Add(step.Scale(secs))

	if a.Velocity.Y > 0 {
		a.Grounded = false
		g.riding[i] = nil
		return
	}

	feet := a.Bounds()
	for _, s := range g.surfaces() {
		top := s.rect.Top()
		if prevFeet < top-landTolerance || feet.Y > top {
			continue
		}
		if feet.Right() <= s.rect.X || feet.X >= s.rect.Right() {
			continue
		}
		a.Position.Y = top + a.Size.Y/2
		a.Velocity.Y = 0
		a.Grounded = true
		g.riding[i] = s.platform
		return
	}

	a.Grounded = false
	g.riding[i] = nil
}

type surface struct {
	rect     core.Rect
	platform *motion.Platform // Nil for static floors
}

func (g *Game) surfaces() []surface {
	out := make([]surface, 0, len(g.stage.Floors)+len(g.platforms)+len(g.spawns))
	for _, f := range g.stage.Floors {
		out = append(out, surface{rect: f})
	}
	for _, p := range g.Platforms() {
		out = append(out, surface{rect: p.Bounds(), platform: p})
	}
	return out
}
