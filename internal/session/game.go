// Package session hosts one match: it owns the avatars, the platforms, the
// input managers and the match controller, and advances them one fixed tick
// at a time.
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/config"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/scene"
)

// Options configures a new game.
type Options struct {
	Stage    registry.Stage
	Rules    match.Config
	Avatar   config.AvatarConfig
	Bindings [core.PlayerCount]input.Bindings
	Runtime  core.RuntimeConfig
	Logger   *log.Logger
}

// StepResult is the outcome of one tick.
type StepResult struct {
	Tick   uint64
	Events []match.Event
	Hits   []Hit
	Scene  scene.Request
	Ended  bool
}

// Game is one running match on one stage.
type Game struct {
	stage  registry.Stage
	tuning config.AvatarConfig
	dt     time.Duration
	logger *log.Logger

	inputs    [core.PlayerCount]*input.Manager
	registry  *arena.Registry
	avatars   [core.PlayerCount]*arena.Avatar
	platforms []*motion.Platform
	spawns    [core.PlayerCount]*motion.Platform
	ctrl      *match.Controller

	riding     [core.PlayerCount]*motion.Platform // Platform each avatar stands on
	dashLeft   [core.PlayerCount]time.Duration
	spawnTimer [core.PlayerCount]time.Duration

	tick uint64
}

// New builds a game from a stage layout and rules.
func New(opts Options) (*Game, error) {
	if err := opts.Stage.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		stage:    opts.Stage,
		tuning:   opts.Avatar,
		dt:       opts.Runtime.TickDuration(),
		logger:   logger,
		registry: arena.NewRegistry(),
	}

	for i := range core.PlayerCount {
		id := core.PlayerID(i)
		g.inputs[i] = input.NewManager(id, opts.Bindings[i], logger)

		a := arena.NewAvatar(id, opts.Rules.Lives, opts.Stage.Starts[i])
		a.Grounded = true
		if a.Position.X > opts.Stage.Arena.Center().X {
			a.Facing = -1
		}
		if err := g.registry.Add(a); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		g.avatars[i] = a

		spawn := opts.Stage.Spawns[i].Build()
		spawn.SetActive(false)
		g.spawns[i] = spawn
	}

	for _, ps := range opts.Stage.Platforms {
		g.platforms = append(g.platforms, ps.Build())
	}

	g.ctrl = match.New(opts.Rules, g.registry, opts.Stage.Boundaries(), g.spawns, opts.Runtime.Seed, logger)
	logger.Info("match ready", "stage", opts.Stage.ID, "lives", opts.Rules.Lives)
	return g, nil
}

// NewForStage builds a game on a registered stage using a full
// configuration.
func NewForStage(stageID string, cfg config.Config, rt core.RuntimeConfig, logger *log.Logger) (*Game, error) {
	st, err := registry.Create(stageID)
	if err != nil {
		return nil, err
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return New(Options{
		Stage:    st,
		Rules:    cfg.Match.Rules(st.PickupRegion),
		Avatar:   cfg.Avatar,
		Bindings: bindings,
		Runtime:  rt,
		Logger:   logger,
	})
}

// Step advances the match by one tick using one raw frame per player.
func (g *Game) Step(frames [core.PlayerCount]input.RawFrame) StepResult {
	g.tick++
	res := StepResult{Tick: g.tick}

	for i, m := range g.inputs {
		m.Update(frames[i])
	}

	for _, p := range g.platforms {
		p.Step(g.dt)
	}

	for i, a := range g.avatars {
		if a.Enabled {
			g.control(i)
		}
	}
	res.Hits = g.resolveAttacks()

	for i, a := range g.avatars {
		if a.Enabled {
			g.integrate(i)
		}
	}
	g.expireSpawns()

	for _, a := range g.avatars {
		if !g.inBlastZone(a) {
			continue
		}
		events := g.ctrl.OnTrigger(a.Collider())
		for _, e := range events {
			if r, ok := e.(match.Respawned); ok {
				g.standOnSpawn(int(r.Player))
			}
		}
		res.Events = append(res.Events, events...)
		if g.ctrl.Ended() {
			break
		}
	}

	for _, a := range g.avatars {
		if a.Enabled {
			res.Events = append(res.Events, g.ctrl.OnPickupContact(a.Collider())...)
		}
	}

	upd := g.ctrl.Update(g.dt)
	res.Events = append(res.Events, upd.Events...)
	res.Scene = upd.Scene
	res.Ended = g.ctrl.Ended()
	return res
}

func (g *Game) inBlastZone(a *arena.Avatar) bool {
	c := a.Collider()
	for _, b := range g.ctrl.Boundaries() {
		if c.Touching(b.Region) {
			return true
		}
	}
	return false
}

// standOnSpawn lifts a respawned avatar onto its platform.
func (g *Game) standOnSpawn(i int) {
	a, p := g.avatars[i], g.spawns[i]
	a.Position = core.V(p.Position().X, p.Bounds().Top()+a.Size.Y/2)
	a.Grounded = true
	g.riding[i] = p
	g.dashLeft[i] = 0
	g.spawnTimer[i] = 0
}

// expireSpawns removes respawn platforms once their hold time is over.
func (g *Game) expireSpawns() {
	for i, p := range g.spawns {
		if !p.Active() {
			continue
		}
		g.spawnTimer[i] += g.dt
		if g.spawnTimer[i] >= g.tuning.SpawnHold {
			p.SetActive(false)
			if g.riding[i] == p {
				g.riding[i] = nil
				g.avatars[i].Grounded = false
			}
		}
	}
}

// Tick returns the number of steps taken.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Stage returns the stage layout.
func (g *Game) Stage() registry.Stage {
	return g.stage
}

// Avatars returns both avatars, indexed by player.
func (g *Game) Avatars() [core.PlayerCount]*arena.Avatar {
	return g.avatars
}

// Avatar returns one player's avatar.
func (g *Game) Avatar(id core.PlayerID) *arena.Avatar {
	if !id.Valid() {
		return nil
	}
	return g.avatars[id]
}

// Input returns one player's input manager.
func (g *Game) Input(id core.PlayerID) *input.Manager {
	if !id.Valid() {
		return nil
	}
	return g.inputs[id]
}

// Platforms returns every platform currently present, spawn platforms
// included.
func (g *Game) Platforms() []*motion.Platform {
	out := make([]*motion.Platform, 0, len(g.platforms)+len(g.spawns))
	for _, p := range g.platforms {
		if p.Active() {
			out = append(out, p)
		}
	}
	for _, p := range g.spawns {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// Spawn returns a player's respawn platform, present or not.
func (g *Game) Spawn(id core.PlayerID) *motion.Platform {
	if !id.Valid() {
		return nil
	}
	return g.spawns[id]
}

// Controller returns the match controller.
func (g *Game) Controller() *match.Controller {
	return g.ctrl
}

// Elapsed returns the simulated match time.
func (g *Game) Elapsed() time.Duration {
	return time.Duration(g.tick) * g.dt
}

// StepDuration returns the simulated length of one tick.
func (g *Game) StepDuration() time.Duration {
	return g.dt
}
